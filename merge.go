package offerdoc

// Merge folds a fresh observation into the previously stored state of the
// same offer and returns the state to persist. Everything comes from next
// except the creation date, kept from prev, and the price history: prev's
// history, plus prev's price when next is a NEW product whose price differs.
// Neither argument is modified. Merging the result with next again yields
// an equal fragment.
func Merge(prev, next *Fragment) (*Fragment, error) {
	if next == nil {
		return nil, Errorf(EINVALID, "nothing to merge")
	}
	merged := next.Clone()
	if prev == nil {
		return merged, nil
	}
	if prev.URL != next.URL {
		return nil, Errorf(EINVALID, "cannot merge %s into %s", next.URL, prev.URL)
	}

	if !prev.CreatedAt.IsZero() {
		merged.CreatedAt = prev.CreatedAt
	}
	merged.PriceHistory = cloneSlice(prev.PriceHistory)
	if next.Condition == ConditionNew && prev.Price != nil && next.Price != nil && !prev.Price.Equal(*next.Price) {
		merged.PriceHistory = append(merged.PriceHistory, *prev.Price)
	}
	return merged, nil
}
