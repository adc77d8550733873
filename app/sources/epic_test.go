package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const epicFixture = `{
  "data": {
    "Catalog": {
      "searchStore": {
        "elements": [
          {
            "id": "offer-active",
            "title": "Active Game",
            "description": "Currently free",
            "price": {
              "totalPrice": {
                "discountPrice": 0,
                "originalPrice": 59900,
                "fmtPrice": {"originalPrice": "599₴"}
              }
            },
            "promotions": {
              "promotionalOffers": [
                {"promotionalOffers": [
                  {"startDate": "2025-06-01T15:00:00.000Z", "endDate": "2025-06-08T15:00:00.000Z"}
                ]}
              ],
              "upcomingPromotionalOffers": []
            },
            "keyImages": [
              {"type": "OfferImageWide", "url": "https://img.example/wide.jpg"},
              {"type": "Thumbnail", "url": "https://img.example/thumb.jpg"}
            ],
            "offerMappings": [{"pageSlug": "active-game"}]
          },
          {
            "id": "offer-upcoming",
            "title": "Upcoming Game",
            "price": {
              "totalPrice": {
                "discountPrice": 0,
                "originalPrice": 0,
                "fmtPrice": {"originalPrice": "0"}
              }
            },
            "promotions": {
              "promotionalOffers": [],
              "upcomingPromotionalOffers": [
                {"promotionalOffers": [
                  {"startDate": "2025-06-10T15:00:00.000Z", "endDate": "2025-06-17T15:00:00.000Z"}
                ]}
              ]
            },
            "productSlug": "upcoming-game-2025-06-10"
          },
          {
            "id": "offer-paid",
            "title": "Paid Game",
            "price": {
              "totalPrice": {
                "discountPrice": 29900,
                "originalPrice": 59900,
                "fmtPrice": {"originalPrice": "599₴"}
              }
            },
            "promotions": {
              "promotionalOffers": [
                {"promotionalOffers": [
                  {"startDate": "2025-06-01T15:00:00.000Z", "endDate": "2025-06-08T15:00:00.000Z"}
                ]}
              ]
            }
          }
        ]
      }
    }
  }
}`

func newEpicTestFetcher(t *testing.T, handler http.HandlerFunc) *EpicFetcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	fetcher := NewEpicFetcher(server.Client(), "Drophunt Test/1.0", DefaultSettings().Epic)
	fetcher.apiURL = server.URL
	fetcher.now = func() time.Time {
		return time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)
	}
	return fetcher
}

func TestEpicFetcher_NormalizesFreePromotions(t *testing.T) {
	fetcher := newEpicTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("country"); got != "UA" {
			t.Errorf("Expected country UA, got %q", got)
		}
		w.Write([]byte(epicFixture))
	})

	items := fetcher.FetchFreeGames(context.Background())

	if len(items) != 2 {
		t.Fatalf("Expected 2 free items (paid offer excluded), got %d", len(items))
	}

	active := items[0]
	if active.ID != "offer-active" {
		t.Errorf("Expected offer-active first, got %q", active.ID)
	}
	if !active.IsActive {
		t.Error("Offer within its window should be active")
	}
	if active.OriginalPrice != "599₴" || !active.HasMeaningfulPrice {
		t.Errorf("Expected meaningful price 599₴, got %q (meaningful=%v)", active.OriginalPrice, active.HasMeaningfulPrice)
	}
	if active.URL != epicStoreURL+"/p/active-game" {
		t.Errorf("Expected offerMappings slug URL, got %q", active.URL)
	}
	if active.Image != "https://img.example/thumb.jpg" {
		t.Errorf("Thumbnail should win over wide image, got %q", active.Image)
	}
	if active.EndDate == nil || active.EndDate.Day() != 8 {
		t.Errorf("Expected end date June 8, got %v", active.EndDate)
	}

	upcoming := items[1]
	if upcoming.IsActive {
		t.Error("Upcoming offer should not be active")
	}
	if upcoming.HasMeaningfulPrice {
		t.Error("Zero price should not be meaningful")
	}
	if upcoming.StartDate == nil || upcoming.StartDate.Day() != 10 {
		t.Errorf("Expected upcoming start June 10, got %v", upcoming.StartDate)
	}
	// productSlug date suffix stripped
	if upcoming.URL != epicStoreURL+"/p/upcoming-game" {
		t.Errorf("Expected cleaned productSlug URL, got %q", upcoming.URL)
	}
}

func TestEpicFetcher_ErrorsDegradeToEmpty(t *testing.T) {
	fetcher := newEpicTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	})

	items := fetcher.FetchFreeGames(context.Background())
	if len(items) != 0 {
		t.Errorf("Expected empty result on upstream error, got %d items", len(items))
	}
}

func TestEpicFetcher_MalformedBodyDegradesToEmpty(t *testing.T) {
	fetcher := newEpicTestFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	items := fetcher.FetchFreeGames(context.Background())
	if len(items) != 0 {
		t.Errorf("Expected empty result on malformed body, got %d items", len(items))
	}
}

func TestEpicFetcher_SearchFallbackURL(t *testing.T) {
	fetcher := NewEpicFetcher(http.DefaultClient, "test", DefaultSettings().Epic)

	element := epicElement{ID: "x", Title: "Some Game"}
	url := fetcher.productURL(element)

	if url != epicStoreURL+"/search?q=Some+Game" {
		t.Errorf("Expected search fallback URL, got %q", url)
	}
}
