package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/drophunt/drophunt/app/giveaway"
)

var _ Fetcher = (*SteamFetcher)(nil)

const steamStoreURL = "https://store.steampowered.com"

// featured specials carry no explicit end date; assume a week so the
// digest can show something bounded.
const steamAssumedSpecialDays = 7

// SteamFetcher combines two views of the store: the featuredcategories
// API (specials discounted to zero) and the search page filtered to
// free specials, resolved through the appdetails endpoint. Results are
// merged and de-duplicated by app id.
type SteamFetcher struct {
	storeURL   string
	httpClient *http.Client
	userAgent  string
	settings   SteamSettings
	now        func() time.Time
	sleep      func(time.Duration)
}

func NewSteamFetcher(httpClient *http.Client, userAgent string, settings SteamSettings) *SteamFetcher {
	return &SteamFetcher{
		storeURL:   steamStoreURL,
		httpClient: httpClient,
		userAgent:  userAgent,
		settings:   settings,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

func (f *SteamFetcher) Name() giveaway.Source {
	return giveaway.SourceSteam
}

func (f *SteamFetcher) FetchFreeGames(ctx context.Context) []giveaway.Item {
	items := []giveaway.Item{}

	fromAPI, err := f.fetchFeaturedSpecials(ctx)
	if err != nil {
		slog.Error("Steam featured specials fetch failed", "error", err)
	} else {
		items = append(items, fromAPI...)
	}

	fromSearch, err := f.fetchSearchResults(ctx)
	if err != nil {
		slog.Error("Steam search page fetch failed", "error", err)
	} else {
		items = append(items, fromSearch...)
	}

	unique := dedupeByID(items)
	slog.Debug("Steam free games fetched", "api", len(fromAPI), "search", len(fromSearch), "unique", len(unique))
	return unique
}

func (f *SteamFetcher) fetchFeaturedSpecials(ctx context.Context) ([]giveaway.Item, error) {
	data, err := f.get(ctx, f.storeURL+"/api/featuredcategories")
	if err != nil {
		return nil, err
	}

	var payload steamFeaturedResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode featured categories: %w", err)
	}

	now := f.now()
	items := []giveaway.Item{}
	for _, special := range payload.Specials.Items {
		if !special.isFree() {
			continue
		}

		appID := strconv.FormatInt(special.ID, 10)
		start := now
		end := now.AddDate(0, 0, steamAssumedSpecialDays)

		items = append(items, giveaway.Item{
			ID:                 appID,
			Title:              special.Name,
			URL:                f.storeURL + "/app/" + appID,
			OriginalPrice:      formatSteamPrice(special.OriginalPrice),
			HasMeaningfulPrice: special.OriginalPrice > 0,
			StartDate:          &start,
			EndDate:            &end,
			IsActive:           true,
			Image:              steamHeaderImage(appID),
		})
	}

	return items, nil
}

// fetchSearchResults scrapes the free-specials search page for app ids
// and resolves each through appdetails, capped and paced so a long
// result list cannot hammer the store.
func (f *SteamFetcher) fetchSearchResults(ctx context.Context) ([]giveaway.Item, error) {
	searchURL := f.storeURL + "/search/?sort_by=Released_DESC&maxprice=free&category1=998&specials=1&ndl=1"

	data, err := f.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	appIDs, err := extractAppIDs(data)
	if err != nil {
		return nil, err
	}

	limit := f.settings.MaxDetails
	if limit > 0 && len(appIDs) > limit {
		appIDs = appIDs[:limit]
	}

	items := []giveaway.Item{}
	for i, appID := range appIDs {
		if i > 0 && f.settings.PageDelayMs > 0 {
			f.sleep(time.Duration(f.settings.PageDelayMs) * time.Millisecond)
		}

		item, err := f.fetchAppDetails(ctx, appID)
		if err != nil {
			slog.Warn("Steam appdetails lookup failed", "app_id", appID, "error", err)
			continue
		}
		if item != nil {
			items = append(items, *item)
		}
	}

	return items, nil
}

func (f *SteamFetcher) fetchAppDetails(ctx context.Context, appID string) (*giveaway.Item, error) {
	endpoint := fmt.Sprintf("%s/api/appdetails?appids=%s&l=%s",
		f.storeURL, url.QueryEscape(appID), url.QueryEscape(f.settings.Language))

	data, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var payload map[string]steamAppDetails
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode appdetails: %w", err)
	}

	details, ok := payload[appID]
	if !ok || !details.Success {
		return nil, nil
	}

	app := details.Data
	isFree := app.IsFree || (app.PriceOverview != nil && app.PriceOverview.Final == 0)
	if !isFree {
		return nil, nil
	}

	now := f.now()
	item := giveaway.Item{
		ID:          appID,
		Title:       app.Name,
		Description: app.ShortDescription,
		URL:         f.storeURL + "/app/" + appID,
		StartDate:   &now,
		// Steam giveaways frequently have no defined end.
		EndDate:  nil,
		IsActive: true,
		Image:    app.HeaderImage,
	}
	if item.Image == "" {
		item.Image = steamHeaderImage(appID)
	}
	if app.PriceOverview != nil && app.PriceOverview.Initial > 0 {
		item.OriginalPrice = formatSteamPrice(app.PriceOverview.Initial)
		item.HasMeaningfulPrice = true
	}

	return &item, nil
}

func (f *SteamFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", "uk-UA,uk;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// extractAppIDs pulls distinct data-ds-appid attributes out of the
// search results markup.
func extractAppIDs(html []byte) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	seen := map[string]struct{}{}
	appIDs := []string{}

	doc.Find("[data-ds-appid]").Each(func(_ int, sel *goquery.Selection) {
		appID, _ := sel.Attr("data-ds-appid")
		if appID == "" {
			return
		}
		if _, ok := seen[appID]; ok {
			return
		}
		seen[appID] = struct{}{}
		appIDs = append(appIDs, appID)
	})

	return appIDs, nil
}

func dedupeByID(items []giveaway.Item) []giveaway.Item {
	seen := map[string]struct{}{}
	unique := []giveaway.Item{}
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// formatSteamPrice renders a price given in kopecks as whole hryvnias.
func formatSteamPrice(kopecks int64) string {
	if kopecks <= 0 {
		return ""
	}
	return strconv.FormatInt(kopecks/100, 10) + "₴"
}

func steamHeaderImage(appID string) string {
	return "https://cdn.cloudflare.steamstatic.com/steam/apps/" + appID + "/header.jpg"
}

type steamFeaturedResponse struct {
	Specials struct {
		Items []steamSpecial `json:"items"`
	} `json:"specials"`
}

type steamSpecial struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FinalPrice    int64  `json:"final_price"`
	OriginalPrice int64  `json:"original_price"`
}

// isFree covers both a temporary giveaway (discounted to zero) and a
// permanently free title.
func (s steamSpecial) isFree() bool {
	return (s.FinalPrice == 0 && s.OriginalPrice > 0) || s.OriginalPrice == 0
}

type steamAppDetails struct {
	Success bool `json:"success"`
	Data    struct {
		Name             string `json:"name"`
		ShortDescription string `json:"short_description"`
		IsFree           bool   `json:"is_free"`
		HeaderImage      string `json:"header_image"`
		PriceOverview    *struct {
			Initial int64 `json:"initial"`
			Final   int64 `json:"final"`
		} `json:"price_overview"`
	} `json:"data"`
}
