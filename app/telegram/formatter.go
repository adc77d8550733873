package telegram

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/drophunt/drophunt/app/giveaway"
)

const dateLayout = "02.01.2006"

// FormatNewGames renders the "new giveaway" announcement for one
// source.
func FormatNewGames(items []giveaway.Item, platform string) string {
	var sb strings.Builder

	sb.WriteString("🆕 <b>NEW GIVEAWAY!</b>\n")
	fmt.Fprintf(&sb, "🎮 <b>%s</b>\n\n", html.EscapeString(platform))

	for _, item := range items {
		writeItemLines(&sb, item, true)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatEndedGames renders the "giveaway over" notice for one source.
func FormatEndedGames(items []giveaway.Item, platform string) string {
	var sb strings.Builder

	sb.WriteString("⌛ <b>GIVEAWAY ENDED</b>\n")
	fmt.Fprintf(&sb, "🎮 <b>%s</b>\n\n", html.EscapeString(platform))

	for _, item := range items {
		fmt.Fprintf(&sb, "🎮 <b>%s</b>\n", html.EscapeString(item.Title))
		if item.URL != "" {
			fmt.Fprintf(&sb, "🔗 <a href=\"%s\">Store page</a>\n", item.URL)
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// FormatDigest renders the full overview of everything currently free:
// active Epic offers, Steam offers, and upcoming Epic offers sorted by
// start date. Sent when a check produced no change messages but free
// games exist.
func FormatDigest(epicItems, steamItems []giveaway.Item, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("🎮 <b>FREE GAME GIVEAWAYS</b>\n")
	fmt.Fprintf(&sb, "📅 <i>%s</i>\n\n", now.Format(dateLayout))

	active := filterItems(epicItems, func(item giveaway.Item) bool { return item.IsActive })
	upcoming := filterItems(epicItems, func(item giveaway.Item) bool {
		return !item.IsActive && item.StartDate != nil
	})

	if len(active) > 0 {
		sb.WriteString("🎯 <b>EPIC GAMES</b>\n\n")
		for _, item := range active {
			writeItemLines(&sb, item, true)
		}
	}

	if len(steamItems) > 0 {
		if len(active) > 0 {
			sb.WriteString("───────────────\n\n")
		}
		sb.WriteString("⚡ <b>STEAM</b>\n\n")
		for _, item := range steamItems {
			writeItemLines(&sb, item, false)
		}
	}

	if len(upcoming) > 0 {
		sb.WriteString("───────────────\n\n")
		sb.WriteString("📅 <b>UPCOMING ON EPIC GAMES:</b>\n\n")

		sort.SliceStable(upcoming, func(i, j int) bool {
			return upcoming[i].StartDate.Before(*upcoming[j].StartDate)
		})
		for _, item := range upcoming {
			fmt.Fprintf(&sb, "🕒 <b>%s</b>\n", html.EscapeString(item.Title))
			fmt.Fprintf(&sb, "📆 %s\n\n", item.StartDate.Format(dateLayout))
		}
	}

	sb.WriteString("🔔 <i>Check back daily for updates!</i>")

	return sb.String()
}

// BuildMediaGroup turns the digest into a photo group using up to two
// active Epic items, the first one carrying the digest as its caption.
func BuildMediaGroup(epicItems, steamItems []giveaway.Item, now time.Time) []InputMediaPhoto {
	active := filterItems(epicItems, func(item giveaway.Item) bool {
		return item.IsActive && item.Image != ""
	})
	if len(active) > 2 {
		active = active[:2]
	}

	media := make([]InputMediaPhoto, 0, len(active))
	for i, item := range active {
		photo := InputMediaPhoto{
			Type:      "photo",
			Media:     item.Image,
			ParseMode: string(ParseModeHTML),
		}
		if i == 0 {
			photo.Caption = FormatDigest(epicItems, steamItems, now)
		}
		media = append(media, photo)
	}

	return media
}

// writeItemLines emits the per-game block: title, price (struck
// original only when it means something), optional deadline, claim
// link.
func writeItemLines(sb *strings.Builder, item giveaway.Item, showEndDate bool) {
	fmt.Fprintf(sb, "🎮 <b>%s</b>\n", html.EscapeString(item.Title))

	if item.HasMeaningfulPrice {
		fmt.Fprintf(sb, "💵 <s>%s</s> <b>FREE</b>\n", html.EscapeString(item.OriginalPrice))
	} else {
		sb.WriteString("🎁 <b>FREE</b>\n")
	}

	if showEndDate && item.EndDate != nil {
		fmt.Fprintf(sb, "⏰ Until: <b>%s</b>\n", item.EndDate.Format(dateLayout))
	}

	fmt.Fprintf(sb, "🔗 <a href=\"%s\">Claim the game</a>\n\n", item.URL)
}

func filterItems(items []giveaway.Item, keep func(giveaway.Item) bool) []giveaway.Item {
	filtered := []giveaway.Item{}
	for _, item := range items {
		if keep(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
