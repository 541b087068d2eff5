package offerdoc

import "strings"

// RatingType tags the origin of a rating.
type RatingType string

// Rating types.
const (
	RatingTechnical RatingType = "TECHNICAL"
	RatingUser      RatingType = "USER"
	RatingCSR       RatingType = "CSR"
	RatingComment   RatingType = "COMMENT"
)

// ParseRatingType resolves a rating type token, case-insensitively.
func ParseRatingType(s string) (RatingType, error) {
	switch t := RatingType(strings.ToUpper(strings.TrimSpace(s))); t {
	case RatingTechnical, RatingUser, RatingCSR, RatingComment:
		return t, nil
	}
	return "", Errorf(EINVALID, "unknown rating type %q", s)
}

// Rating is a score expressed on a [Min, Max] scale.
type Rating struct {
	Value      *float64     `json:"value,omitempty"`
	Min        *float64     `json:"min,omitempty"`
	Max        *float64     `json:"max,omitempty"`
	VoterCount *int         `json:"voterCount,omitempty"`
	Types      []RatingType `json:"types,omitempty"`
}

// HasType reports whether the rating is tagged with t.
func (r *Rating) HasType(t RatingType) bool {
	for _, have := range r.Types {
		if have == t {
			return true
		}
	}
	return false
}

// Validate returns an error unless value, min and max are present with
// min < max and min <= value <= max. User ratings also need a voter count.
func (r *Rating) Validate() error {
	if r.Value == nil || r.Min == nil || r.Max == nil {
		return Errorf(EINVALID, "rating requires value, min and max")
	}
	if *r.Min >= *r.Max {
		return Errorf(EINVALID, "rating min %v must be lower than max %v", *r.Min, *r.Max)
	}
	if *r.Value < *r.Min || *r.Value > *r.Max {
		return Errorf(EINVALID, "rating value %v outside [%v, %v]", *r.Value, *r.Min, *r.Max)
	}
	if r.HasType(RatingUser) && r.VoterCount == nil {
		return Errorf(EINVALID, "user rating requires a voter count")
	}
	if r.VoterCount != nil && *r.VoterCount < 0 {
		return Errorf(EINVALID, "negative voter count %d", *r.VoterCount)
	}
	return nil
}

// Clone returns a deep copy of the rating.
func (r *Rating) Clone() *Rating {
	if r == nil {
		return nil
	}
	other := &Rating{
		Value:      clonePtr(r.Value),
		Min:        clonePtr(r.Min),
		Max:        clonePtr(r.Max),
		VoterCount: clonePtr(r.VoterCount),
	}
	if r.Types != nil {
		other.Types = append([]RatingType(nil), r.Types...)
	}
	return other
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
