package giveaway

import (
	"time"
)

// Source identifies one of the polled storefronts.
type Source string

const (
	SourceEpic  Source = "epic"
	SourceSteam Source = "steam"
)

// Item is the canonical shape of a free promotional offer, normalized
// from either storefront. ID is the source-assigned identifier (Epic
// catalog id or Steam app id) and is the sole key used for change
// detection; items without an ID cannot be tracked.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`

	// OriginalPrice is the display-formatted pre-promotion price.
	// HasMeaningfulPrice is true only when it denotes a real nonzero
	// amount, so formatters never render a struck-through zero.
	OriginalPrice      string `json:"originalPrice,omitempty"`
	HasMeaningfulPrice bool   `json:"hasMeaningfulPrice"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// IsActive marks the offer as claimable now; false means the offer
	// is known but upcoming.
	IsActive bool `json:"isActive"`

	Image string `json:"image,omitempty"`
}

// Snapshot is the persisted record of the last-seen items per source.
// Missing keys in a stored document unmarshal to nil and are treated as
// empty lists.
type Snapshot struct {
	Epic       []Item     `json:"epic"`
	Steam      []Item     `json:"steam"`
	LastUpdate *time.Time `json:"lastUpdate"`
}

// EmptySnapshot is what Load degrades to when nothing has been
// persisted yet or the stored document is unreadable.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Epic:  []Item{},
		Steam: []Item{},
	}
}

// Items returns the stored list for the given source, never nil.
func (s Snapshot) Items(source Source) []Item {
	var items []Item
	switch source {
	case SourceEpic:
		items = s.Epic
	case SourceSteam:
		items = s.Steam
	}
	if items == nil {
		return []Item{}
	}
	return items
}
