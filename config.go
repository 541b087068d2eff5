package offerdoc

import "strings"

// Extractor kinds understood by the built-in registry.
const (
	ExtractorField     = "field"
	ExtractorJSON      = "json"
	ExtractorJSONLD    = "jsonld"
	ExtractorTable     = "table"
	ExtractorComments  = "comments"
	ExtractorQuestions = "questions"
	ExtractorRating    = "rating"
	ExtractorResources = "resources"
	ExtractorDeep      = "deep"
)

// DatasourceConfig describes how to extract offers from one merchant.
type DatasourceConfig struct {
	Name   string `json:"name" yaml:"name"`
	Locale string `json:"locale,omitempty" yaml:"locale,omitempty"`

	// DelimiterTags lists the markup tags at which element text is split
	// into lines. When empty, every text node starts a new line.
	DelimiterTags []string `json:"delimiterTags,omitempty" yaml:"delimiterTags,omitempty"`

	Provider   ProviderConfig    `json:"provider" yaml:"provider"`
	Extractors []ExtractorConfig `json:"extractors" yaml:"extractors"`
}

// Validate returns ECONFIG when the datasource cannot be built.
func (c *DatasourceConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return Errorf(ECONFIG, "datasource name required")
	}
	if len(c.Extractors) == 0 {
		return Errorf(ECONFIG, "datasource %s declares no extractor", c.Name)
	}
	if c.Provider.RequestsPerSecond < 0 {
		return Errorf(ECONFIG, "datasource %s: negative request rate", c.Name)
	}
	for i, x := range c.Extractors {
		if x.Kind == "" {
			return Errorf(ECONFIG, "datasource %s: extractor %d has no kind", c.Name, i)
		}
	}
	return nil
}

// ProviderConfig holds merchant-wide conventions shared by all extractors.
type ProviderConfig struct {
	// RatingMin and RatingMax give the scale of ratings that do not carry one.
	RatingMin *float64 `json:"ratingMin,omitempty" yaml:"ratingMin,omitempty"`
	RatingMax *float64 `json:"ratingMax,omitempty" yaml:"ratingMax,omitempty"`

	// DateFormat is a Go time layout used for comment and question dates.
	DateFormat string `json:"dateFormat,omitempty" yaml:"dateFormat,omitempty"`
	// DatePrefixes are stripped from date strings ("Posted on ").
	DatePrefixes []string `json:"datePrefixes,omitempty" yaml:"datePrefixes,omitempty"`
	// DateCutToken truncates date strings at its first occurrence (" by ").
	DateCutToken string `json:"dateCutToken,omitempty" yaml:"dateCutToken,omitempty"`

	// RequestsPerSecond caps fetches to each merchant host. Zero leaves the
	// caller's default in place.
	RequestsPerSecond float64 `json:"requestsPerSecond,omitempty" yaml:"requestsPerSecond,omitempty"`

	DefaultCurrency   string `json:"defaultCurrency,omitempty" yaml:"defaultCurrency,omitempty"`
	DefaultCondition  string `json:"defaultCondition,omitempty" yaml:"defaultCondition,omitempty"`
	EvictIfNoCategory bool   `json:"evictIfNoCategory,omitempty" yaml:"evictIfNoCategory,omitempty"`

	// ReferentialAliases maps BRAND, MODEL or GTIN to the attribute names
	// under which the merchant publishes them.
	ReferentialAliases map[string][]string `json:"referentialAliases,omitempty" yaml:"referentialAliases,omitempty"`
}

// ExtractorConfig is one entry of a datasource extractor list. Kind selects
// the extractor; the matching section carries its settings.
type ExtractorConfig struct {
	Kind string `json:"kind" yaml:"kind"`

	Field     *FieldConfig     `json:"field,omitempty" yaml:"field,omitempty"`
	Table     *TableConfig     `json:"table,omitempty" yaml:"table,omitempty"`
	Comments  *CommentsConfig  `json:"comments,omitempty" yaml:"comments,omitempty"`
	Questions *QuestionsConfig `json:"questions,omitempty" yaml:"questions,omitempty"`
	Rating    *RatingConfig    `json:"rating,omitempty" yaml:"rating,omitempty"`
	Resources *ResourcesConfig `json:"resources,omitempty" yaml:"resources,omitempty"`
	JSONLD    *JSONLDConfig    `json:"jsonld,omitempty" yaml:"jsonld,omitempty"`
	Deep      *DeepConfig      `json:"deep,omitempty" yaml:"deep,omitempty"`
}

// FieldConfig maps fragment fields to expressions. Empty expressions are
// not evaluated.
type FieldConfig struct {
	Names               []string `json:"names,omitempty" yaml:"names,omitempty"`
	Price               string   `json:"price,omitempty" yaml:"price,omitempty"`
	Currency            string   `json:"currency,omitempty" yaml:"currency,omitempty"`
	Description         string   `json:"description,omitempty" yaml:"description,omitempty"`
	DescriptionLanguage string   `json:"descriptionLanguage,omitempty" yaml:"descriptionLanguage,omitempty"`
	Category            string   `json:"category,omitempty" yaml:"category,omitempty"`
	Warranty            string   `json:"warranty,omitempty" yaml:"warranty,omitempty"`
	ShippingCost        string   `json:"shippingCost,omitempty" yaml:"shippingCost,omitempty"`
	ShippingTime        string   `json:"shippingTime,omitempty" yaml:"shippingTime,omitempty"`
	Stock               string   `json:"stock,omitempty" yaml:"stock,omitempty"`
	Condition           string   `json:"condition,omitempty" yaml:"condition,omitempty"`
	Brand               string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Model               string   `json:"model,omitempty" yaml:"model,omitempty"`
	GTIN                string   `json:"gtin,omitempty" yaml:"gtin,omitempty"`

	// BrandID is a single token holding brand and model, split at
	// BrandIDSeparator (default " ").
	BrandID          string `json:"brandId,omitempty" yaml:"brandId,omitempty"`
	BrandIDSeparator string `json:"brandIdSeparator,omitempty" yaml:"brandIdSeparator,omitempty"`

	Images    string `json:"images,omitempty" yaml:"images,omitempty"`
	Documents string `json:"documents,omitempty" yaml:"documents,omitempty"`
	Pros      string `json:"pros,omitempty" yaml:"pros,omitempty"`
	Cons      string `json:"cons,omitempty" yaml:"cons,omitempty"`

	// Attributes maps attribute names to expressions.
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// TableConfig configures attribute extraction from tabular markup. Any
// combination of the three modes may be set.
type TableConfig struct {
	// Rows selects row nodes. Each row yields Key/Value, or its first two
	// cells when those are empty. Rows made only of HeaderTag cells are skipped.
	Rows      string `json:"rows,omitempty" yaml:"rows,omitempty"`
	Key       string `json:"key,omitempty" yaml:"key,omitempty"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	HeaderTag string `json:"headerTag,omitempty" yaml:"headerTag,omitempty"`

	// Pairs selects "name<Separator>value" strings.
	Pairs     string `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	Separator string `json:"separator,omitempty" yaml:"separator,omitempty"`

	// Keys and Values select two parallel lists zipped positionally.
	Keys   string `json:"keys,omitempty" yaml:"keys,omitempty"`
	Values string `json:"values,omitempty" yaml:"values,omitempty"`
}

// CommentsConfig selects parallel lists zipped into comments. Bodies is
// required; every configured list must have the same length.
type CommentsConfig struct {
	Bodies  string `json:"bodies" yaml:"bodies"`
	Titles  string `json:"titles,omitempty" yaml:"titles,omitempty"`
	Authors string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Dates   string `json:"dates,omitempty" yaml:"dates,omitempty"`
	Ratings string `json:"ratings,omitempty" yaml:"ratings,omitempty"`
	Useful  string `json:"useful,omitempty" yaml:"useful,omitempty"`
	Useless string `json:"useless,omitempty" yaml:"useless,omitempty"`
}

// QuestionsConfig selects parallel lists zipped into questions with at most
// one answer each.
type QuestionsConfig struct {
	Questions     string `json:"questions" yaml:"questions"`
	Authors       string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Dates         string `json:"dates,omitempty" yaml:"dates,omitempty"`
	Answers       string `json:"answers,omitempty" yaml:"answers,omitempty"`
	AnswerAuthors string `json:"answerAuthors,omitempty" yaml:"answerAuthors,omitempty"`
	AnswerDates   string `json:"answerDates,omitempty" yaml:"answerDates,omitempty"`
}

// RatingConfig configures a single rating. Each field is an expression; a
// quoted or numeric literal is used as is.
type RatingConfig struct {
	Value string   `json:"value" yaml:"value"`
	Min   string   `json:"min,omitempty" yaml:"min,omitempty"`
	Max   string   `json:"max,omitempty" yaml:"max,omitempty"`
	Count string   `json:"count,omitempty" yaml:"count,omitempty"`
	Types []string `json:"types,omitempty" yaml:"types,omitempty"`
}

// ResourcesConfig configures document link discovery.
type ResourcesConfig struct {
	// Links selects candidate hrefs (default "//a/@href").
	Links    string   `json:"links,omitempty" yaml:"links,omitempty"`
	Contains string   `json:"contains,omitempty" yaml:"contains,omitempty"`
	Suffix   string   `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// JSONLDConfig locates an embedded JSON-LD block and maps its fields.
type JSONLDConfig struct {
	// Scripts selects candidate blocks
	// (default "//script[@type='application/ld+json']").
	Scripts  string      `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Contains string      `json:"contains,omitempty" yaml:"contains,omitempty"`
	Field    FieldConfig `json:"field" yaml:"field"`
}

// DeepConfig configures extraction from linked or paginated sub-pages.
type DeepConfig struct {
	// URL is an expression resolving the first sub-page address.
	URL          string        `json:"url" yaml:"url"`
	Replacements []Replacement `json:"replacements,omitempty" yaml:"replacements,omitempty"`

	// PageParam paginates by incrementing a query parameter.
	PageParam string `json:"pageParam,omitempty" yaml:"pageParam,omitempty"`
	// PathPattern paginates by incrementing the number captured by the
	// pattern's single group.
	PathPattern string `json:"pathPattern,omitempty" yaml:"pathPattern,omitempty"`
	FirstPage   int    `json:"firstPage,omitempty" yaml:"firstPage,omitempty"`
	MaxPages    int    `json:"maxPages,omitempty" yaml:"maxPages,omitempty"`

	Extractors []ExtractorConfig `json:"extractors" yaml:"extractors"`
}

// Paginated reports whether the deep extractor walks numbered pages.
func (c *DeepConfig) Paginated() bool {
	return c.PageParam != "" || c.PathPattern != ""
}

// Replacement is a literal token substitution applied to a resolved URL.
type Replacement struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}
