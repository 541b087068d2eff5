package offerdoc

import "strings"

// Token tables are scanned in order; negative and specific tokens come first
// so that "indisponible" is not read as "disponible".
var stockTokens = []struct {
	token string
	state StockState
}{
	{"outofstock", OutOfStock},
	{"out of stock", OutOfStock},
	{"out_of_stock", OutOfStock},
	{"soldout", OutOfStock},
	{"sold out", OutOfStock},
	{"discontinued", OutOfStock},
	{"unavailable", OutOfStock},
	{"indisponible", OutOfStock},
	{"rupture", OutOfStock},
	{"épuisé", OutOfStock},
	{"epuise", OutOfStock},
	{"preorder", PreOrder},
	{"pre-order", PreOrder},
	{"pre_order", PreOrder},
	{"presale", PreOrder},
	{"backorder", PreOrder},
	{"précommande", PreOrder},
	{"precommande", PreOrder},
	{"instock", InStock},
	{"in stock", InStock},
	{"in_stock", InStock},
	{"en stock", InStock},
	{"limitedavailability", InStock},
	{"onlineonly", InStock},
	{"instoreonly", InStock},
	{"disponible", InStock},
	{"available", InStock},
}

var conditionTokens = []struct {
	token     string
	condition Condition
}{
	{"refurbished", ConditionOccasion},
	{"reconditionné", ConditionOccasion},
	{"reconditionne", ConditionOccasion},
	{"usedcondition", ConditionOccasion},
	{"damagedcondition", ConditionOccasion},
	{"second hand", ConditionOccasion},
	{"occasion", ConditionOccasion},
	{"used", ConditionOccasion},
	{"newcondition", ConditionNew},
	{"neuf", ConditionNew},
	{"nouveau", ConditionNew},
	{"new", ConditionNew},
}

// schemaToken lower-cases s and strips a schema.org prefix such as
// "https://schema.org/InStock".
func schemaToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, prefix := range []string{"https://schema.org/", "http://schema.org/", "schema:"} {
		s = strings.TrimPrefix(s, prefix)
	}
	return s
}

// ParseStock resolves merchant availability wording into a StockState.
func ParseStock(raw string) (StockState, error) {
	s := schemaToken(raw)
	switch StockState(strings.ToUpper(s)) {
	case InStock, OutOfStock, PreOrder:
		return StockState(strings.ToUpper(s)), nil
	}
	for _, t := range stockTokens {
		if strings.Contains(s, t.token) {
			return t.state, nil
		}
	}
	return "", Errorf(EINVALID, "unknown stock state %q", raw)
}

// ParseCondition resolves merchant condition wording into a Condition.
func ParseCondition(raw string) (Condition, error) {
	s := schemaToken(raw)
	switch Condition(strings.ToUpper(s)) {
	case ConditionNew, ConditionOccasion:
		return Condition(strings.ToUpper(s)), nil
	}
	for _, t := range conditionTokens {
		if strings.Contains(s, t.token) {
			return t.condition, nil
		}
	}
	return "", Errorf(EINVALID, "unknown product condition %q", raw)
}
