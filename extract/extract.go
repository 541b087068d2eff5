// Package extract implements the configurable extractors that fill a
// fragment from a document. Each extractor is built from one entry of a
// datasource configuration through a Registry.
package extract

import (
	"log/slog"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/expr"
)

// aliasSimilarity is the Jaro-Winkler score above which an attribute name
// is taken for a referential alias.
const aliasSimilarity = 0.94

// Env carries the collaborators shared by every extractor.
type Env struct {
	Logger    *slog.Logger
	Evaluator *expr.Evaluator

	// Converter turns HTML descriptions into Markdown. Optional.
	Converter offerdoc.Converter
}

// NewEnv returns an Env with an evaluator logging to logger.
func NewEnv(logger *slog.Logger, conv offerdoc.Converter) Env {
	return Env{Logger: logger, Evaluator: expr.NewEvaluator(logger), Converter: conv}
}

// one evaluates a single-valued expression. Missing values are logged at
// debug level, ambiguous or invalid ones as warnings.
func (env Env) one(doc offerdoc.Document, field, expression string) (string, bool) {
	if expression == "" {
		return "", false
	}
	v, err := env.Evaluator.EvalOne(doc, expression)
	if err != nil {
		env.report(doc, field, expression, err)
		return "", false
	}
	return v, true
}

// many evaluates a list expression. ok is false when the expression is not
// configured or failed.
func (env Env) many(doc offerdoc.Document, field, expression string) (values []string, ok bool) {
	if expression == "" {
		return nil, false
	}
	values, err := env.Evaluator.EvalMany(doc, expression)
	if err != nil {
		env.report(doc, field, expression, err)
		return nil, false
	}
	return values, true
}

func (env Env) report(doc offerdoc.Document, field, expression string, err error) {
	if offerdoc.ErrorCode(err) == offerdoc.ENOTFOUND {
		env.Logger.Debug("field not found", "url", doc.URL(), "field", field, "path", expression)
		return
	}
	env.Logger.Warn("field skipped", "url", doc.URL(), "field", field, "path", expression, "err", err)
}

// rejected logs a value refused by a fragment setter.
func (env Env) rejected(doc offerdoc.Document, field, value string, err error) {
	env.Logger.Warn("value rejected", "url", doc.URL(), "field", field, "value", value, "err", err)
}

// addAttribute stores a as a referential when its name is a configured
// alias of BRAND, MODEL or GTIN, and as a plain attribute otherwise.
func (env Env) addAttribute(doc offerdoc.Document, p offerdoc.ProviderConfig, f *offerdoc.Fragment, a offerdoc.Attribute) {
	if key, ok := referentialFor(p.ReferentialAliases, a.Name); ok {
		if f.Referential(key) != "" {
			return
		}
		if err := f.SetReferential(key, a.Value); err != nil {
			env.rejected(doc, string(key), a.Value, err)
		}
		return
	}
	if err := f.AddAttribute(a); err != nil {
		env.rejected(doc, "attribute "+a.Name, a.Value, err)
	}
}

// referentialFor returns the referential key whose name or aliases match
// name, exactly after normalization or by Jaro-Winkler similarity.
func referentialFor(aliases map[string][]string, name string) (offerdoc.ReferentialKey, bool) {
	name = offerdoc.NormalizeAttributeName(name)
	if name == "" {
		return "", false
	}
	for _, key := range offerdoc.ReferentialKeys {
		if name == string(key) {
			return key, true
		}
	}
	if len(aliases) == 0 {
		return "", false
	}
	for _, key := range offerdoc.ReferentialKeys {
		for configured, list := range aliases {
			if !strings.EqualFold(configured, string(key)) {
				continue
			}
			for _, alias := range list {
				alias = offerdoc.NormalizeAttributeName(alias)
				if alias == name || matchr.JaroWinkler(alias, name, false) >= aliasSimilarity {
					return key, true
				}
			}
		}
	}
	return "", false
}

// language returns the configured language, falling back to the locale.
func language(configured, locale string) string {
	if configured != "" {
		return configured
	}
	return locale
}
