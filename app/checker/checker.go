package checker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/drophunt/drophunt/app/giveaway"
	"github.com/drophunt/drophunt/app/reconciler"
	"github.com/drophunt/drophunt/app/sources"
	"github.com/drophunt/drophunt/app/telegram"
)

// ErrNotConfigured aborts a check before any fetch or persist happens.
var ErrNotConfigured = errors.New("telegram bot token or chat id is not configured")

// Sender is the outgoing-message boundary, satisfied by
// *telegram.Client.
type Sender interface {
	SendMessage(ctx context.Context, text string, mode telegram.ParseMode) error
	SendMediaGroup(ctx context.Context, media []telegram.InputMediaPhoto) error
}

// SourceCounts summarizes one source's diff for the trigger response.
type SourceCounts struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
}

type Changes struct {
	Epic  SourceCounts `json:"epic"`
	Steam SourceCounts `json:"steam"`
}

// Summary is the JSON-serializable outcome of one check, returned to
// the trigger caller.
type Summary struct {
	Success      bool             `json:"success"`
	Error        string           `json:"error,omitempty"`
	Changes      Changes          `json:"changes"`
	MessagesSent int              `json:"messagesSent"`
	Stats        reconciler.Stats `json:"stats"`
}

// Checker runs one complete fetch-reconcile-notify cycle per Run call.
// It is stateless across calls; all durable state lives behind the
// reconciler's snapshot store.
type Checker struct {
	epic       sources.Fetcher
	steam      sources.Fetcher
	reconciler *reconciler.Reconciler
	sender     Sender
	configured bool
	sendDelay  time.Duration
	now        func() time.Time
	sleep      func(time.Duration)
}

func New(epic, steam sources.Fetcher, rec *reconciler.Reconciler, sender Sender, configured bool, sendDelay time.Duration) *Checker {
	return &Checker{
		epic:       epic,
		steam:      steam,
		reconciler: rec,
		sender:     sender,
		configured: configured,
		sendDelay:  sendDelay,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// Run performs one check. A missing Telegram configuration is the only
// fatal condition, detected before anything is fetched or persisted.
// Everything downstream degrades per component: failed fetches become
// empty lists, a failed save is flagged on the report, failed sends are
// logged and skipped.
func (c *Checker) Run(ctx context.Context) (Summary, error) {
	if !c.configured {
		slog.Error("Check aborted, Telegram credentials missing")
		return Summary{Success: false, Error: ErrNotConfigured.Error()}, ErrNotConfigured
	}

	epicItems, steamItems := c.fetchAll(ctx)
	slog.Info("Sources fetched", "epic", len(epicItems), "steam", len(steamItems))

	report := c.reconciler.Run(ctx, epicItems, steamItems)

	messagesSent := c.notify(ctx, report, epicItems, steamItems)

	return Summary{
		Success: true,
		Changes: Changes{
			Epic:  SourceCounts{Added: len(report.Epic.Added), Removed: len(report.Epic.Removed)},
			Steam: SourceCounts{Added: len(report.Steam.Added), Removed: len(report.Steam.Removed)},
		},
		MessagesSent: messagesSent,
		Stats:        c.reconciler.Stats(ctx),
	}, nil
}

// Stats exposes the snapshot totals without running a check.
func (c *Checker) Stats(ctx context.Context) reconciler.Stats {
	return c.reconciler.Stats(ctx)
}

// fetchAll issues both upstream fetches concurrently; neither source
// depends on the other and the slower one dominates wall-clock time.
func (c *Checker) fetchAll(ctx context.Context) ([]giveaway.Item, []giveaway.Item) {
	var epicItems, steamItems []giveaway.Item

	var wg sync.WaitGroup
	if c.epic != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			epicItems = c.epic.FetchFreeGames(ctx)
		}()
	}
	if c.steam != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			steamItems = c.steam.FetchFreeGames(ctx)
		}()
	}
	wg.Wait()

	return epicItems, steamItems
}

type outgoing struct {
	kind  string
	text  string
	media []telegram.InputMediaPhoto
}

// notify renders and dispatches one message per non-empty change
// bucket, serialized with a fixed delay to stay under the Bot API rate
// limit. When no change message was delivered but free games exist, a
// full digest goes out instead.
func (c *Checker) notify(ctx context.Context, report reconciler.Report, epicItems, steamItems []giveaway.Item) int {
	queue := []outgoing{}

	activeNewEpic := activeOnly(report.Epic.Added)
	if len(activeNewEpic) > 0 {
		queue = append(queue, outgoing{kind: "epic_new", text: telegram.FormatNewGames(activeNewEpic, "Epic Games")})
	}
	if len(report.Steam.Added) > 0 {
		queue = append(queue, outgoing{kind: "steam_new", text: telegram.FormatNewGames(report.Steam.Added, "Steam")})
	}
	if len(report.Epic.Removed) > 0 {
		queue = append(queue, outgoing{kind: "epic_ended", text: telegram.FormatEndedGames(report.Epic.Removed, "Epic Games")})
	}
	if len(report.Steam.Removed) > 0 {
		queue = append(queue, outgoing{kind: "steam_ended", text: telegram.FormatEndedGames(report.Steam.Removed, "Steam")})
	}

	sent := c.dispatch(ctx, queue)

	if sent == 0 && (len(epicItems) > 0 || len(steamItems) > 0) {
		digest := outgoing{kind: "digest"}
		if media := telegram.BuildMediaGroup(epicItems, steamItems, c.now()); len(media) > 0 {
			digest.media = media
		} else {
			digest.text = telegram.FormatDigest(epicItems, steamItems, c.now())
		}
		sent += c.dispatch(ctx, []outgoing{digest})
	}

	if sent == 0 {
		slog.Info("No notifications sent this cycle")
	}
	return sent
}

func (c *Checker) dispatch(ctx context.Context, queue []outgoing) int {
	sent := 0
	for i, message := range queue {
		if i > 0 && c.sendDelay > 0 {
			c.sleep(c.sendDelay)
		}

		var err error
		if len(message.media) > 0 {
			err = c.sender.SendMediaGroup(ctx, message.media)
		} else {
			err = c.sender.SendMessage(ctx, message.text, telegram.ParseModeHTML)
		}

		if err != nil {
			slog.Error("Failed to send notification", "kind", message.kind, "error", err)
			continue
		}
		sent++
		slog.Debug("Notification sent", "kind", message.kind)
	}
	return sent
}

func activeOnly(items []giveaway.Item) []giveaway.Item {
	active := []giveaway.Item{}
	for _, item := range items {
		if item.IsActive {
			active = append(active, item)
		}
	}
	return active
}
