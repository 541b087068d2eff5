package extract

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.Extractor = (*FieldExtractor)(nil)

// FieldExtractor maps single fields of a document onto a fragment.
type FieldExtractor struct {
	env  Env
	cfg  offerdoc.FieldConfig
	ds   *offerdoc.DatasourceConfig
	kind string
}

// NewFieldExtractor creates a FieldExtractor.
func NewFieldExtractor(env Env, cfg offerdoc.FieldConfig, ds *offerdoc.DatasourceConfig) *FieldExtractor {
	return &FieldExtractor{env: env, cfg: cfg, ds: ds, kind: offerdoc.ExtractorField}
}

// Kind returns offerdoc.ExtractorField.
func (x *FieldExtractor) Kind() string { return x.kind }

// Extract fills f from doc. It returns EEVICTED when the provider evicts
// pages without category and the category path yields nothing.
func (x *FieldExtractor) Extract(_ context.Context, doc offerdoc.Document, locale string, f *offerdoc.Fragment) error {
	if x.cfg.Category != "" {
		categories, _ := x.env.many(doc, "category", x.cfg.Category)
		if len(categories) == 0 && x.ds.Provider.EvictIfNoCategory {
			return offerdoc.Errorf(offerdoc.EEVICTED, "no category at %s", doc.URL())
		}
		for _, c := range categories {
			f.AddCategory(c)
		}
	}

	for _, e := range x.cfg.Names {
		names, _ := x.env.many(doc, "name", e)
		for _, n := range names {
			f.AddName(n)
		}
	}

	x.price(doc, f)
	x.set(doc, f, "stock", x.cfg.Stock, f.SetStock)
	x.set(doc, f, "condition", x.cfg.Condition, f.SetCondition)
	if f.Condition == "" && x.ds.Provider.DefaultCondition != "" {
		if err := f.SetCondition(x.ds.Provider.DefaultCondition); err != nil {
			x.env.rejected(doc, "condition", x.ds.Provider.DefaultCondition, err)
		}
	}
	x.set(doc, f, "warranty", x.cfg.Warranty, f.SetWarranty)
	x.set(doc, f, "shippingCost", x.cfg.ShippingCost, f.SetShippingCost)
	x.set(doc, f, "shippingTime", x.cfg.ShippingTime, f.SetShippingTime)

	x.description(doc, locale, f)
	x.referentials(doc, f)

	x.resources(doc, f, "images", x.cfg.Images, offerdoc.TagImage)
	x.resources(doc, f, "documents", x.cfg.Documents, offerdoc.TagDocument)

	pros, _ := x.env.many(doc, "pros", x.cfg.Pros)
	for _, p := range pros {
		f.AddPro(p)
	}
	cons, _ := x.env.many(doc, "cons", x.cfg.Cons)
	for _, c := range cons {
		f.AddCon(c)
	}

	names := make([]string, 0, len(x.cfg.Attributes))
	for name := range x.cfg.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		values, _ := x.env.many(doc, "attribute "+name, x.cfg.Attributes[name])
		if len(values) == 0 {
			continue
		}
		x.env.addAttribute(doc, x.ds.Provider, f, offerdoc.Attribute{
			Name:     name,
			Value:    strings.Join(values, ", "),
			Language: locale,
		})
	}
	return nil
}

// set evaluates expression and hands the value to setter.
func (x *FieldExtractor) set(doc offerdoc.Document, f *offerdoc.Fragment, field, expression string, setter func(string) error) {
	v, ok := x.env.one(doc, field, expression)
	if !ok {
		return
	}
	if err := setter(v); err != nil {
		x.env.rejected(doc, field, v, err)
	}
}

func (x *FieldExtractor) price(doc offerdoc.Document, f *offerdoc.Fragment) {
	amount, ok := x.env.one(doc, "price", x.cfg.Price)
	if !ok {
		return
	}
	currency, _ := x.env.one(doc, "currency", x.cfg.Currency)
	if currency == "" && offerdoc.DetectCurrency(amount) == "" {
		currency = x.ds.Provider.DefaultCurrency
	}
	p, err := offerdoc.ParsePrice(amount, currency)
	if err == nil {
		err = f.SetPrice(p)
	}
	if err != nil {
		x.env.rejected(doc, "price", amount, err)
	}
}

var htmlTag = regexp.MustCompile(`<(p|br|ul|ol|li|div|span|strong|b|em|i|h[1-6]|table)\b[^>]*>`)

func (x *FieldExtractor) description(doc offerdoc.Document, locale string, f *offerdoc.Fragment) {
	text, ok := x.env.one(doc, "description", x.cfg.Description)
	if !ok {
		return
	}
	if x.env.Converter != nil && htmlTag.MatchString(text) {
		md, err := x.env.Converter.Convert(text)
		if err != nil {
			x.env.rejected(doc, "description", text, err)
		} else {
			text = md
		}
	}
	if err := f.AddDescription(text, language(x.cfg.DescriptionLanguage, locale)); err != nil {
		x.env.rejected(doc, "description", text, err)
	}
}

func (x *FieldExtractor) referentials(doc offerdoc.Document, f *offerdoc.Fragment) {
	for _, r := range []struct {
		key        offerdoc.ReferentialKey
		expression string
	}{
		{offerdoc.ReferentialBrand, x.cfg.Brand},
		{offerdoc.ReferentialModel, x.cfg.Model},
		{offerdoc.ReferentialGTIN, x.cfg.GTIN},
	} {
		x.set(doc, f, strings.ToLower(string(r.key)), r.expression, func(v string) error {
			return f.SetReferential(r.key, v)
		})
	}

	token, ok := x.env.one(doc, "brandId", x.cfg.BrandID)
	if !ok {
		return
	}
	sep := x.cfg.BrandIDSeparator
	if sep == "" {
		sep = " "
	}
	brand, model, found := strings.Cut(token, sep)
	if !found || strings.TrimSpace(brand) == "" || strings.TrimSpace(model) == "" {
		x.env.Logger.Warn("brand and model not separable", "url", doc.URL(), "value", token, "separator", sep)
		return
	}
	if err := f.SetReferential(offerdoc.ReferentialBrand, brand); err != nil {
		x.env.rejected(doc, "brand", brand, err)
	}
	if err := f.SetReferential(offerdoc.ReferentialModel, model); err != nil {
		x.env.rejected(doc, "model", model, err)
	}
}

func (x *FieldExtractor) resources(doc offerdoc.Document, f *offerdoc.Fragment, field, expression, tag string) {
	hrefs, _ := x.env.many(doc, field, expression)
	for _, href := range hrefs {
		u, err := offerdoc.AbsoluteURL(doc.URL(), href)
		if err == nil {
			err = f.AddResource(offerdoc.Resource{URL: u, Tags: []string{tag}})
		}
		if err != nil {
			x.env.rejected(doc, field, href, err)
		}
	}
}

var _ offerdoc.Extractor = (*JSONExtractor)(nil)

// JSONExtractor applies a field mapping to JSON documents only.
type JSONExtractor struct {
	fields *FieldExtractor
}

// NewJSONExtractor creates a JSONExtractor.
func NewJSONExtractor(env Env, cfg offerdoc.FieldConfig, ds *offerdoc.DatasourceConfig) *JSONExtractor {
	fields := NewFieldExtractor(env, cfg, ds)
	fields.kind = offerdoc.ExtractorJSON
	return &JSONExtractor{fields: fields}
}

// Kind returns offerdoc.ExtractorJSON.
func (x *JSONExtractor) Kind() string { return offerdoc.ExtractorJSON }

// Extract fills f from a JSON document and skips markup with a warning.
func (x *JSONExtractor) Extract(ctx context.Context, doc offerdoc.Document, locale string, f *offerdoc.Fragment) error {
	if doc.Kind() != offerdoc.KindJSON {
		x.fields.env.Logger.Warn("json extractor skipped", "url", doc.URL(), "kind", doc.Kind())
		return nil
	}
	return x.fields.Extract(ctx, doc, locale, f)
}
