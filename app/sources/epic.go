package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/drophunt/drophunt/app/giveaway"
)

var _ Fetcher = (*EpicFetcher)(nil)

const (
	epicAPIURL   = "https://store-site-backend-static.ak.epicgames.com"
	epicStoreURL = "https://store.epicgames.com"
)

// productSlug values sometimes carry a date suffix that is not part of
// the store URL.
var epicSlugDateSuffix = regexp.MustCompile(`-\d{4}-\d{2}-\d{2}$`)

// EpicFetcher polls the Epic Games Store free-games promotions endpoint
// and normalizes its catalog elements. Upcoming promotions are kept as
// items with IsActive=false so subscribers can be told about them ahead
// of time.
type EpicFetcher struct {
	apiURL     string
	storeURL   string
	httpClient *http.Client
	userAgent  string
	settings   EpicSettings
	now        func() time.Time
}

func NewEpicFetcher(httpClient *http.Client, userAgent string, settings EpicSettings) *EpicFetcher {
	return &EpicFetcher{
		apiURL:     epicAPIURL,
		storeURL:   epicStoreURL,
		httpClient: httpClient,
		userAgent:  userAgent,
		settings:   settings,
		now:        time.Now,
	}
}

func (f *EpicFetcher) Name() giveaway.Source {
	return giveaway.SourceEpic
}

func (f *EpicFetcher) FetchFreeGames(ctx context.Context) []giveaway.Item {
	promotions, err := f.fetchPromotions(ctx)
	if err != nil {
		slog.Error("Epic fetch failed", "error", err)
		return nil
	}

	items := []giveaway.Item{}
	for _, element := range promotions {
		if !element.isFreePromotion() {
			continue
		}
		items = append(items, f.normalize(element))
	}

	slog.Debug("Epic free games fetched", "total", len(promotions), "free", len(items))
	return items
}

func (f *EpicFetcher) fetchPromotions(ctx context.Context) ([]epicElement, error) {
	endpoint := fmt.Sprintf("%s/freeGamesPromotions?locale=%s&country=%s&allowCountries=%s",
		f.apiURL, url.QueryEscape(f.settings.Locale),
		url.QueryEscape(f.settings.Country), url.QueryEscape(f.settings.Country))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch promotions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var payload epicResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return payload.Data.Catalog.SearchStore.Elements, nil
}

func (f *EpicFetcher) normalize(element epicElement) giveaway.Item {
	price := element.priceData()
	window := element.promotionWindow(f.now())

	return giveaway.Item{
		ID:                 element.ID,
		Title:              element.Title,
		Description:        element.Description,
		URL:                f.productURL(element),
		OriginalPrice:      price.display,
		HasMeaningfulPrice: price.meaningful,
		StartDate:          window.start,
		EndDate:            window.end,
		IsActive:           window.active,
		Image:              element.image(),
	}
}

// productURL resolves the store page for an offer. The API exposes the
// slug in several places depending on the offer's age; fall back to a
// store search as the last resort so the link never 404s.
func (f *EpicFetcher) productURL(element epicElement) string {
	for _, mapping := range element.OfferMappings {
		if mapping.PageSlug != "" {
			return f.storeURL + "/p/" + mapping.PageSlug
		}
	}

	for _, mapping := range element.CatalogNs.Mappings {
		if mapping.PageSlug != "" {
			return f.storeURL + "/p/" + mapping.PageSlug
		}
	}

	if element.ProductSlug != "" && !strings.Contains(element.ProductSlug, "/home") {
		slug := epicSlugDateSuffix.ReplaceAllString(element.ProductSlug, "")
		return f.storeURL + "/p/" + slug
	}

	return f.storeURL + "/search?q=" + url.QueryEscape(element.Title)
}

// Response model for the freeGamesPromotions endpoint, limited to the
// fields the normalizer reads.

type epicResponse struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []epicElement `json:"elements"`
			} `json:"searchStore"`
		} `json:"Catalog"`
	} `json:"data"`
}

type epicElement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ProductSlug string `json:"productSlug"`

	Price struct {
		TotalPrice struct {
			DiscountPrice int `json:"discountPrice"`
			OriginalPrice int `json:"originalPrice"`
			FmtPrice      struct {
				OriginalPrice string `json:"originalPrice"`
			} `json:"fmtPrice"`
		} `json:"totalPrice"`
	} `json:"price"`

	Promotions struct {
		PromotionalOffers         []epicOfferGroup `json:"promotionalOffers"`
		UpcomingPromotionalOffers []epicOfferGroup `json:"upcomingPromotionalOffers"`
	} `json:"promotions"`

	KeyImages []struct {
		Type string `json:"type"`
		URL  string `json:"url"`
	} `json:"keyImages"`

	OfferMappings []epicPageMapping `json:"offerMappings"`
	CatalogNs     struct {
		Mappings []epicPageMapping `json:"mappings"`
	} `json:"catalogNs"`
}

type epicOfferGroup struct {
	PromotionalOffers []epicOffer `json:"promotionalOffers"`
}

type epicOffer struct {
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

type epicPageMapping struct {
	PageSlug string `json:"pageSlug"`
}

func (e epicElement) isFreePromotion() bool {
	isFree := e.Price.TotalPrice.DiscountPrice == 0
	hasPromotion := len(e.Promotions.PromotionalOffers) > 0 ||
		len(e.Promotions.UpcomingPromotionalOffers) > 0
	return isFree && hasPromotion
}

type epicPrice struct {
	display    string
	meaningful bool
}

// priceData extracts the display price and decides whether it is worth
// showing. A zero or empty original price would render as a struck
// "0", so it is not considered meaningful.
func (e epicElement) priceData() epicPrice {
	display := e.Price.TotalPrice.FmtPrice.OriginalPrice

	meaningful := e.Price.TotalPrice.OriginalPrice > 0 &&
		display != "" && display != "0" && display != "0₴"

	return epicPrice{display: display, meaningful: meaningful}
}

type epicWindow struct {
	start  *time.Time
	end    *time.Time
	active bool
}

// promotionWindow picks the relevant offer window. Current offers win;
// an upcoming offer whose start is still in the future marks the item
// as not yet active.
func (e epicElement) promotionWindow(now time.Time) epicWindow {
	var window epicWindow

	if offer := firstOffer(e.Promotions.PromotionalOffers); offer != nil {
		window.start = offer.StartDate
		window.end = offer.EndDate
		if offer.StartDate != nil && offer.EndDate != nil {
			window.active = !now.Before(*offer.StartDate) && !now.After(*offer.EndDate)
		}
	}

	if offer := firstOffer(e.Promotions.UpcomingPromotionalOffers); offer != nil {
		if offer.StartDate != nil && now.Before(*offer.StartDate) {
			window.start = offer.StartDate
			window.end = offer.EndDate
			window.active = false
		}
	}

	return window
}

func firstOffer(groups []epicOfferGroup) *epicOffer {
	if len(groups) == 0 || len(groups[0].PromotionalOffers) == 0 {
		return nil
	}
	return &groups[0].PromotionalOffers[0]
}

// image prefers the thumbnail, then the wide offer image, then
// whatever comes first.
func (e epicElement) image() string {
	for _, img := range e.KeyImages {
		if img.Type == "Thumbnail" {
			return img.URL
		}
	}
	for _, img := range e.KeyImages {
		if img.Type == "OfferImageWide" {
			return img.URL
		}
	}
	if len(e.KeyImages) > 0 {
		return e.KeyImages[0].URL
	}
	return ""
}
