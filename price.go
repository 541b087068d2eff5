package offerdoc

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/currency"
)

// Price is an observed offer price.
type Price struct {
	Value     float64   `json:"value"`
	Currency  string    `json:"currency"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate returns an error if the price is not positive or its currency is
// not an ISO 4217 code.
func (p Price) Validate() error {
	if p.Value <= 0 || math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
		return Errorf(EINVALID, "price value must be positive, got %v", p.Value)
	}
	if _, err := ParseCurrency(p.Currency); err != nil {
		return err
	}
	return nil
}

// Equal reports whether two prices carry the same amount in the same
// currency. Timestamps are ignored and amounts are compared to the cent.
func (p Price) Equal(other Price) bool {
	return p.Currency == other.Currency &&
		math.Round(p.Value*100) == math.Round(other.Value*100)
}

var currencySymbols = map[string]string{
	"€":     "EUR",
	"EURO":  "EUR",
	"EUROS": "EUR",
	"$":     "USD",
	"US$":   "USD",
	"£":     "GBP",
	"¥":     "JPY",
	"FR":    "CHF",
}

// ParseCurrency resolves a currency symbol or ISO 4217 code to its code.
func ParseCurrency(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return "", Errorf(EINVALID, "currency required")
	}
	if code, ok := currencySymbols[s]; ok {
		return code, nil
	}
	unit, err := currency.ParseISO(s)
	if err != nil || unit.String() == "XXX" {
		return "", Errorf(EINVALID, "unknown currency %q", raw)
	}
	return unit.String(), nil
}

// DetectCurrency looks for a currency symbol or ISO code inside a price
// string such as "1 299,99 €" or "EUR 12". It returns "" when none is found.
func DetectCurrency(raw string) string {
	for _, sym := range []string{"€", "£", "¥", "$"} {
		if strings.Contains(raw, sym) {
			return currencySymbols[sym]
		}
	}
	for _, token := range strings.FieldsFunc(raw, func(r rune) bool { return !unicode.IsLetter(r) }) {
		if len(token) != 3 {
			continue
		}
		if code, err := ParseCurrency(token); err == nil {
			return code
		}
	}
	return ""
}

// ParseAmount extracts a decimal amount from a localized price string. Both
// "1 299,99" and "1,299.99" yield 1299.99; a lone separator followed by
// exactly three digits is read as a thousands separator.
func ParseAmount(raw string) (float64, error) {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || r == ',' || r == '.' {
			b.WriteRune(r)
		}
	}
	s := strings.Trim(b.String(), ".,")
	if s == "" {
		return 0, Errorf(EINVALID, "no amount in %q", raw)
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = normalizeSeparator(s, ",")
	case lastDot >= 0:
		s = normalizeSeparator(s, ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, Errorf(EINVALID, "invalid amount %q", raw)
	}
	return v, nil
}

// normalizeSeparator rewrites s, which contains only digits and sep, into a
// form strconv understands.
func normalizeSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	i := strings.Index(s, sep)
	if len(s)-i-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}

// ParsePrice builds a price from a raw amount and a raw currency. When
// currencyRaw is empty the currency is detected from the amount string.
func ParsePrice(amountRaw, currencyRaw string) (Price, error) {
	value, err := ParseAmount(amountRaw)
	if err != nil {
		return Price{}, err
	}
	var code string
	if strings.TrimSpace(currencyRaw) != "" {
		if code, err = ParseCurrency(currencyRaw); err != nil {
			return Price{}, err
		}
	} else if code = DetectCurrency(amountRaw); code == "" {
		return Price{}, Errorf(EINVALID, "no currency in %q", amountRaw)
	}
	p := Price{Value: value, Currency: code, Timestamp: time.Now().UTC()}
	if err := p.Validate(); err != nil {
		return Price{}, err
	}
	return p, nil
}
