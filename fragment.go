package offerdoc

import (
	"context"
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// StockState is the availability of an offer.
type StockState string

// Stock states.
const (
	InStock    StockState = "IN_STOCK"
	OutOfStock StockState = "OUT_OF_STOCK"
	PreOrder   StockState = "PRE_ORDER"
)

// Condition is the condition of the offered product.
type Condition string

// Product conditions.
const (
	ConditionNew      Condition = "NEW"
	ConditionOccasion Condition = "OCCASION"
)

// Description is a localized free-text description.
type Description struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

// Fragment is the normalized record of one offer at one URL, as seen by one
// datasource. Two fragments are the same offer when their URLs are equal.
type Fragment struct {
	URL            string    `json:"url"`
	DatasourceName string    `json:"datasourceName"`
	CreatedAt      time.Time `json:"createdAt"`
	IndexedAt      time.Time `json:"indexedAt"`

	Names        []string      `json:"names,omitempty"`
	Descriptions []Description `json:"descriptions,omitempty"`
	Categories   []string      `json:"categories,omitempty"`

	Price        *Price     `json:"price,omitempty"`
	PriceHistory []Price    `json:"priceHistory,omitempty"`
	Stock        StockState `json:"stock,omitempty"`
	Condition    Condition  `json:"condition,omitempty"`

	ShippingCost   *float64 `json:"shippingCost,omitempty"`
	ShippingTime   *int     `json:"shippingTime,omitempty"`
	WarrantyMonths *int     `json:"warrantyMonths,omitempty"`

	Ratings   []Rating   `json:"ratings,omitempty"`
	Comments  []Comment  `json:"comments,omitempty"`
	Questions []Question `json:"questions,omitempty"`
	Pros      []string   `json:"pros,omitempty"`
	Cons      []string   `json:"cons,omitempty"`
	Resources []Resource `json:"resources,omitempty"`

	Referentials map[ReferentialKey]string `json:"referentials,omitempty"`
	AlternateIDs []AlternateID             `json:"alternateIds,omitempty"`

	// attributes is indexed by normalized name in attrIndex. Both are only
	// mutated through AddAttribute and RemoveAttribute.
	attributes []Attribute
	attrIndex  map[string]int
}

// NewFragment returns an empty fragment for url, stamped now.
func NewFragment(url, datasource string) *Fragment {
	now := time.Now().UTC()
	return &Fragment{
		URL:            url,
		DatasourceName: datasource,
		CreatedAt:      now,
		IndexedAt:      now,
	}
}

// Equal reports whether f and other describe the same offer.
func (f *Fragment) Equal(other *Fragment) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.URL == other.URL
}

// AddName adds a display name. Whitespace is collapsed and duplicates are ignored.
func (f *Fragment) AddName(name string) {
	f.Names = appendUnique(f.Names, name)
}

// AddCategory adds a category tag.
func (f *Fragment) AddCategory(category string) {
	f.Categories = appendUnique(f.Categories, category)
}

// AddPro adds a positive point.
func (f *Fragment) AddPro(s string) { f.Pros = appendUnique(f.Pros, s) }

// AddCon adds a negative point.
func (f *Fragment) AddCon(s string) { f.Cons = appendUnique(f.Cons, s) }

// AddDescription adds a localized description.
func (f *Fragment) AddDescription(text, language string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return Errorf(EINVALID, "empty description")
	}
	for _, d := range f.Descriptions {
		if d.Text == text && d.Language == language {
			return nil
		}
	}
	f.Descriptions = append(f.Descriptions, Description{Text: text, Language: language})
	return nil
}

// SetPrice validates and sets the current price.
func (f *Fragment) SetPrice(p Price) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now().UTC()
	}
	f.Price = &p
	return nil
}

// SetStock parses and sets the stock state.
func (f *Fragment) SetStock(raw string) error {
	s, err := ParseStock(raw)
	if err != nil {
		return err
	}
	f.Stock = s
	return nil
}

// SetCondition parses and sets the product condition.
func (f *Fragment) SetCondition(raw string) error {
	c, err := ParseCondition(raw)
	if err != nil {
		return err
	}
	f.Condition = c
	return nil
}

// SetShippingCost parses a shipping cost. "Free" and its translations are zero.
func (f *Fragment) SetShippingCost(raw string) error {
	lower := strings.ToLower(raw)
	for _, free := range []string{"gratuit", "free", "offert", "gratis"} {
		if strings.Contains(lower, free) {
			f.ShippingCost = Float64(0)
			return nil
		}
	}
	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	f.ShippingCost = &v
	return nil
}

var (
	firstNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	wordTokens  = regexp.MustCompile(`\pL+`)
)

// SetShippingTime parses a delivery delay into days. Hours are rounded up to
// whole days and weeks count seven days.
func (f *Fragment) SetShippingTime(raw string) error {
	n, unit, err := quantity(raw)
	if err != nil {
		return err
	}
	days := n
	switch unit {
	case "h", "hour", "hours", "heure", "heures":
		days = math.Ceil(n / 24)
	case "week", "weeks", "semaine", "semaines":
		days = n * 7
	}
	d := int(math.Ceil(days))
	f.ShippingTime = &d
	return nil
}

// SetWarranty parses a warranty duration into months. A bare number is read
// as years.
func (f *Fragment) SetWarranty(raw string) error {
	n, unit, err := quantity(raw)
	if err != nil {
		return err
	}
	months := n * 12
	switch unit {
	case "mois", "month", "months", "m":
		months = n
	}
	m := int(math.Round(months))
	f.WarrantyMonths = &m
	return nil
}

// quantity returns the first number in raw and the word following it.
func quantity(raw string) (float64, string, error) {
	loc := firstNumber.FindStringIndex(raw)
	if loc == nil {
		return 0, "", Errorf(EINVALID, "no number in %q", raw)
	}
	n, err := strconv.ParseFloat(strings.Replace(raw[loc[0]:loc[1]], ",", ".", 1), 64)
	if err != nil {
		return 0, "", Errorf(EINVALID, "invalid number in %q", raw)
	}
	unit := strings.ToLower(wordTokens.FindString(raw[loc[1]:]))
	return n, unit, nil
}

// AddRating validates and adds a rating.
func (f *Fragment) AddRating(r Rating) error {
	if err := r.Validate(); err != nil {
		return err
	}
	f.Ratings = append(f.Ratings, *r.Clone())
	return nil
}

// AddComment validates and adds a comment.
func (f *Fragment) AddComment(c Comment) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.Comments = append(f.Comments, c)
	return nil
}

// AddQuestion validates and adds a question.
func (f *Fragment) AddQuestion(q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	f.Questions = append(f.Questions, q)
	return nil
}

// AddResource validates and adds a resource. A URL already present only
// gains the new tags.
func (f *Fragment) AddResource(r Resource) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for i := range f.Resources {
		if f.Resources[i].URL == r.URL {
			for _, tag := range r.Tags {
				f.Resources[i].Tags = appendUnique(f.Resources[i].Tags, tag)
			}
			return nil
		}
	}
	f.Resources = append(f.Resources, Resource{URL: r.URL, Tags: append([]string(nil), r.Tags...)})
	return nil
}

// Validate returns EFRAGMENT if the fragment misses a required field, holds
// a price without condition and stock, or contains an invalid nested value.
func (f *Fragment) Validate() error {
	var problems []string
	if f.URL == "" {
		problems = append(problems, "url required")
	}
	if f.DatasourceName == "" {
		problems = append(problems, "datasource name required")
	}
	if f.IndexedAt.IsZero() {
		problems = append(problems, "indexation date required")
	}
	if f.Price != nil {
		if err := f.Price.Validate(); err != nil {
			problems = append(problems, ErrorMessage(err))
		}
		if f.Condition == "" {
			problems = append(problems, "price requires a product condition")
		}
		if f.Stock == "" {
			problems = append(problems, "price requires a stock state")
		}
	}
	for i := range f.Ratings {
		if err := f.Ratings[i].Validate(); err != nil {
			problems = append(problems, "rating: "+ErrorMessage(err))
		}
	}
	for i := range f.Comments {
		if err := f.Comments[i].Validate(); err != nil {
			problems = append(problems, "comment: "+ErrorMessage(err))
		}
	}
	for i := range f.Questions {
		if err := f.Questions[i].Validate(); err != nil {
			problems = append(problems, "question: "+ErrorMessage(err))
		}
	}
	for i := range f.Resources {
		if err := f.Resources[i].Validate(); err != nil {
			problems = append(problems, "resource: "+ErrorMessage(err))
		}
	}
	if len(problems) > 0 {
		return Errorf(EFRAGMENT, "fragment %s: %s", f.URL, strings.Join(problems, "; "))
	}
	return nil
}

// Clone returns a deep copy of the fragment.
func (f *Fragment) Clone() *Fragment {
	other := *f
	other.Names = cloneSlice(f.Names)
	other.Descriptions = cloneSlice(f.Descriptions)
	other.Categories = cloneSlice(f.Categories)
	other.Price = clonePtr(f.Price)
	other.PriceHistory = cloneSlice(f.PriceHistory)
	other.ShippingCost = clonePtr(f.ShippingCost)
	other.ShippingTime = clonePtr(f.ShippingTime)
	other.WarrantyMonths = clonePtr(f.WarrantyMonths)
	other.Pros = cloneSlice(f.Pros)
	other.Cons = cloneSlice(f.Cons)
	other.AlternateIDs = cloneSlice(f.AlternateIDs)

	other.Ratings = nil
	for i := range f.Ratings {
		other.Ratings = append(other.Ratings, *f.Ratings[i].Clone())
	}
	other.Comments = nil
	for _, c := range f.Comments {
		c.Date = clonePtr(c.Date)
		c.Rating = c.Rating.Clone()
		other.Comments = append(other.Comments, c)
	}
	other.Questions = nil
	for _, q := range f.Questions {
		q.Date = clonePtr(q.Date)
		answers := q.Answers
		q.Answers = nil
		for _, a := range answers {
			a.Date = clonePtr(a.Date)
			q.Answers = append(q.Answers, a)
		}
		other.Questions = append(other.Questions, q)
	}
	other.Resources = nil
	for _, r := range f.Resources {
		r.Tags = cloneSlice(r.Tags)
		other.Resources = append(other.Resources, r)
	}
	if f.Referentials != nil {
		other.Referentials = make(map[ReferentialKey]string, len(f.Referentials))
		for k, v := range f.Referentials {
			other.Referentials[k] = v
		}
	}
	other.attributes = cloneSlice(f.attributes)
	other.attrIndex = nil
	if f.attrIndex != nil {
		other.attrIndex = make(map[string]int, len(f.attrIndex))
		for k, v := range f.attrIndex {
			other.attrIndex[k] = v
		}
	}
	return &other
}

// fragmentAlias drops the JSON methods of Fragment.
type fragmentAlias Fragment

// MarshalJSON encodes the fragment, attributes included.
func (f *Fragment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		*fragmentAlias
		Attributes []Attribute `json:"attributes,omitempty"`
	}{(*fragmentAlias)(f), f.attributes})
}

// UnmarshalJSON decodes a fragment and rebuilds its attribute index.
func (f *Fragment) UnmarshalJSON(data []byte) error {
	aux := struct {
		*fragmentAlias
		Attributes []Attribute `json:"attributes"`
	}{fragmentAlias: (*fragmentAlias)(f)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	f.attributes, f.attrIndex = nil, nil
	for _, a := range aux.Attributes {
		if err := f.AddAttribute(a); err != nil {
			return err
		}
	}
	return nil
}

// FragmentStore persists merged fragments.
type FragmentStore interface {
	// FindFragmentByURL returns the last saved state of the offer at url.
	// Returns ENOTFOUND if no fragment was saved for url.
	FindFragmentByURL(ctx context.Context, url string) (*Fragment, error)

	// SaveFragment creates or replaces the fragment stored for f.URL.
	SaveFragment(ctx context.Context, f *Fragment) error

	// FindPriceHistory returns the archived prices of the offer at url,
	// oldest first.
	FindPriceHistory(ctx context.Context, url string) ([]Price, error)
}

// FragmentIndexer hands merged fragments off to downstream consumers.
type FragmentIndexer interface {
	IndexFragment(ctx context.Context, f *Fragment) error
}

func appendUnique(list []string, s string) []string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return list
	}
	for _, have := range list {
		if have == s {
			return list
		}
	}
	return append(list, s)
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append([]T(nil), s...)
}
