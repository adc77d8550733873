package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/drophunt/drophunt/app/giveaway"
)

func timePtr(t time.Time) *time.Time { return &t }

var testNow = time.Date(2025, 6, 3, 12, 0, 0, 0, time.UTC)

func TestFormatNewGames_MeaningfulPriceIsStruck(t *testing.T) {
	items := []giveaway.Item{{
		ID:                 "a",
		Title:              "Control & Friends",
		URL:                "https://store.epicgames.com/p/control",
		OriginalPrice:      "599₴",
		HasMeaningfulPrice: true,
		EndDate:            timePtr(time.Date(2025, 6, 8, 15, 0, 0, 0, time.UTC)),
	}}

	msg := FormatNewGames(items, "Epic Games")

	if !strings.Contains(msg, "<s>599₴</s> <b>FREE</b>") {
		t.Errorf("Expected struck price, got:\n%s", msg)
	}
	if !strings.Contains(msg, "Control &amp; Friends") {
		t.Errorf("Title should be HTML-escaped, got:\n%s", msg)
	}
	if !strings.Contains(msg, "08.06.2025") {
		t.Errorf("Expected formatted end date, got:\n%s", msg)
	}
	if !strings.Contains(msg, `<a href="https://store.epicgames.com/p/control">`) {
		t.Errorf("Expected claim link, got:\n%s", msg)
	}
}

func TestFormatNewGames_ZeroPriceNeverStruck(t *testing.T) {
	items := []giveaway.Item{{ID: "a", Title: "Freebie", URL: "https://example.com"}}

	msg := FormatNewGames(items, "Steam")

	if strings.Contains(msg, "<s>") {
		t.Errorf("No strikethrough expected without a meaningful price, got:\n%s", msg)
	}
	if !strings.Contains(msg, "🎁 <b>FREE</b>") {
		t.Errorf("Expected plain FREE line, got:\n%s", msg)
	}
}

func TestFormatEndedGames(t *testing.T) {
	items := []giveaway.Item{{ID: "a", Title: "Gone Game", URL: "https://example.com/gone"}}

	msg := FormatEndedGames(items, "Steam")

	if !strings.Contains(msg, "GIVEAWAY ENDED") {
		t.Errorf("Expected ended header, got:\n%s", msg)
	}
	if !strings.Contains(msg, "Gone Game") {
		t.Errorf("Expected title, got:\n%s", msg)
	}
}

func TestFormatDigest_SectionsAndUpcomingOrder(t *testing.T) {
	epic := []giveaway.Item{
		{ID: "a", Title: "Active Epic", IsActive: true, URL: "https://e/a"},
		{ID: "c", Title: "Later Upcoming", StartDate: timePtr(testNow.AddDate(0, 0, 14))},
		{ID: "b", Title: "Sooner Upcoming", StartDate: timePtr(testNow.AddDate(0, 0, 7))},
	}
	steam := []giveaway.Item{{ID: "s", Title: "Steam Game", IsActive: true, URL: "https://s/s"}}

	msg := FormatDigest(epic, steam, testNow)

	if !strings.Contains(msg, "EPIC GAMES") || !strings.Contains(msg, "STEAM") {
		t.Errorf("Expected both source sections, got:\n%s", msg)
	}
	if !strings.Contains(msg, "UPCOMING ON EPIC GAMES") {
		t.Errorf("Expected upcoming section, got:\n%s", msg)
	}
	if !strings.Contains(msg, "03.06.2025") {
		t.Errorf("Expected digest date, got:\n%s", msg)
	}

	sooner := strings.Index(msg, "Sooner Upcoming")
	later := strings.Index(msg, "Later Upcoming")
	if sooner == -1 || later == -1 || sooner > later {
		t.Errorf("Upcoming items should be sorted by start date, got:\n%s", msg)
	}
}

func TestFormatDigest_OmitsEmptySections(t *testing.T) {
	msg := FormatDigest(nil, []giveaway.Item{{ID: "s", Title: "Only Steam", URL: "https://s"}}, testNow)

	if strings.Contains(msg, "EPIC GAMES") {
		t.Errorf("No Epic section expected, got:\n%s", msg)
	}
	if !strings.Contains(msg, "STEAM") {
		t.Errorf("Expected Steam section, got:\n%s", msg)
	}
}

func TestBuildMediaGroup(t *testing.T) {
	epic := []giveaway.Item{
		{ID: "a", Title: "First", IsActive: true, Image: "https://img/a.jpg"},
		{ID: "b", Title: "Second", IsActive: true, Image: "https://img/b.jpg"},
		{ID: "c", Title: "Third", IsActive: true, Image: "https://img/c.jpg"},
		{ID: "d", Title: "No image", IsActive: true},
	}

	media := BuildMediaGroup(epic, nil, testNow)

	if len(media) != 2 {
		t.Fatalf("Expected media group capped at 2, got %d", len(media))
	}
	if media[0].Caption == "" {
		t.Error("First photo should carry the digest caption")
	}
	if media[1].Caption != "" {
		t.Error("Only the first photo should carry a caption")
	}
	if media[0].Media != "https://img/a.jpg" {
		t.Errorf("Expected first image, got %q", media[0].Media)
	}
}

func TestBuildMediaGroup_EmptyWithoutImages(t *testing.T) {
	epic := []giveaway.Item{{ID: "a", Title: "No image", IsActive: true}}

	if media := BuildMediaGroup(epic, nil, testNow); len(media) != 0 {
		t.Errorf("Expected no media without images, got %d", len(media))
	}
}
