package sources

import (
	"context"

	"github.com/drophunt/drophunt/app/giveaway"
)

// Fetcher returns the currently-known free items for one storefront.
//
// FetchFreeGames is best-effort: any upstream or decoding error is
// logged and degrades to an empty list, indistinguishable from
// "genuinely nothing free this cycle". Callers must not treat an empty
// result as fatal.
type Fetcher interface {
	Name() giveaway.Source
	FetchFreeGames(ctx context.Context) []giveaway.Item
}
