package offerdoc

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ReferentialKey names an identifying attribute held apart from the free
// attribute set.
type ReferentialKey string

// Referential keys.
const (
	ReferentialBrand ReferentialKey = "BRAND"
	ReferentialModel ReferentialKey = "MODEL"
	ReferentialGTIN  ReferentialKey = "GTIN"
)

// ReferentialKeys lists every referential key.
var ReferentialKeys = []ReferentialKey{ReferentialBrand, ReferentialModel, ReferentialGTIN}

// ParseReferentialKey resolves a referential key, case-insensitively.
func ParseReferentialKey(s string) (ReferentialKey, error) {
	k := ReferentialKey(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case ReferentialBrand, ReferentialModel, ReferentialGTIN:
		return k, nil
	}
	return "", Errorf(EINVALID, "unknown referential key %q", s)
}

// AlternateID records the raw form of an identifier that was rewritten during
// normalization.
type AlternateID struct {
	Key       ReferentialKey `json:"key"`
	Value     string         `json:"value"`
	Timestamp time.Time      `json:"timestamp"`
}

var gtinArtifact = regexp.MustCompile(`\.0+$`)

// NormalizeGTIN strips the ".0" artifact left by spreadsheet exports and
// requires the remainder to be all digits.
func NormalizeGTIN(raw string) (string, error) {
	s := gtinArtifact.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" {
		return "", Errorf(EINVALID, "empty GTIN")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return "", Errorf(EINVALID, "GTIN %q must be numeric", raw)
		}
	}
	return s, nil
}

// CanonicalModel removes diacritics, upper-cases and drops every character
// that is not a letter or a digit: "ue-55 tu7105" becomes "UE55TU7105".
func CanonicalModel(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, raw)
	if err != nil {
		s = raw
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeBrand upper-cases and trims a brand name.
func NormalizeBrand(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}

// SetReferential normalizes and stores a referential attribute. MODEL and
// GTIN values whose normalized form differs from the input keep the input
// as an alternate identifier. An invalid GTIN fails with EINVALID and leaves
// the referential unset.
func (f *Fragment) SetReferential(key ReferentialKey, raw string) error {
	raw = strings.TrimSpace(raw)
	var value string
	switch key {
	case ReferentialBrand:
		value = NormalizeBrand(raw)
	case ReferentialModel:
		value = CanonicalModel(raw)
	case ReferentialGTIN:
		v, err := NormalizeGTIN(raw)
		if err != nil {
			return err
		}
		value = v
	default:
		return Errorf(EINVALID, "unknown referential key %q", key)
	}
	if value == "" {
		return Errorf(EINVALID, "empty %s", key)
	}

	if f.Referentials == nil {
		f.Referentials = make(map[ReferentialKey]string)
	}
	f.Referentials[key] = value
	if key != ReferentialBrand && value != raw {
		f.addAlternateID(AlternateID{Key: key, Value: raw, Timestamp: time.Now().UTC()})
	}
	return nil
}

// Referential returns the normalized value stored under key.
func (f *Fragment) Referential(key ReferentialKey) string {
	return f.Referentials[key]
}

func (f *Fragment) addAlternateID(id AlternateID) {
	for _, have := range f.AlternateIDs {
		if have.Key == id.Key && have.Value == id.Value {
			return
		}
	}
	f.AlternateIDs = append(f.AlternateIDs, id)
}
