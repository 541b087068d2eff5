package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fwojciec/offerdoc"
)

// Default rating scale used when neither the configuration nor the
// provider gives one.
const (
	defaultRatingMin = 1.0
	defaultRatingMax = 5.0
)

var scoreToken = regexp.MustCompile(`-?\d+(?:[.,]\d+)?`)

// parseScore reads "4", "4,5", "4.5/5" or "4 out of 5". max is zero when
// the value does not carry its scale.
func parseScore(raw string) (value, max float64, err error) {
	nums := scoreToken.FindAllString(raw, 2)
	if len(nums) == 0 {
		return 0, 0, offerdoc.Errorf(offerdoc.EINVALID, "no score in %q", raw)
	}
	value, err = parseNumber(nums[0])
	if err != nil {
		return 0, 0, err
	}
	if len(nums) == 2 && (strings.Contains(raw, "/") || strings.Contains(strings.ToLower(raw), " of ") || strings.Contains(strings.ToLower(raw), " sur ")) {
		max, err = parseNumber(nums[1])
		if err != nil {
			return 0, 0, err
		}
	}
	return value, max, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
	if err != nil {
		return 0, offerdoc.Errorf(offerdoc.EINVALID, "invalid number %q", s)
	}
	return v, nil
}

// parseCount reads a counter such as "12 votes" or "(1 204)".
func parseCount(raw string) (int, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, offerdoc.Errorf(offerdoc.EINVALID, "no count in %q", raw)
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, offerdoc.Errorf(offerdoc.EINVALID, "invalid count %q", raw)
	}
	return n, nil
}

// scale returns the provider rating scale and whether it was configured.
func scale(p offerdoc.ProviderConfig) (min, max float64, ok bool) {
	if p.RatingMin == nil || p.RatingMax == nil {
		return defaultRatingMin, defaultRatingMax, false
	}
	return *p.RatingMin, *p.RatingMax, true
}
