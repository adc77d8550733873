package giveaway

// Added returns every item in next whose ID is absent from prev,
// preserving the order of next. Items without an ID are skipped: they
// have no stable identity to diff on.
func Added(prev, next []Item) []Item {
	prevIDs := idSet(prev)

	added := []Item{}
	for _, item := range next {
		if item.ID == "" {
			continue
		}
		if _, ok := prevIDs[item.ID]; !ok {
			added = append(added, item)
		}
	}

	return added
}

// Removed returns every item in prev whose ID is absent from next,
// preserving the order of prev.
func Removed(prev, next []Item) []Item {
	nextIDs := idSet(next)

	removed := []Item{}
	for _, item := range prev {
		if item.ID == "" {
			continue
		}
		if _, ok := nextIDs[item.ID]; !ok {
			removed = append(removed, item)
		}
	}

	return removed
}

func idSet(items []Item) map[string]struct{} {
	ids := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.ID != "" {
			ids[item.ID] = struct{}{}
		}
	}
	return ids
}
