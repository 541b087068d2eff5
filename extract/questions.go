package extract

import (
	"context"

	"github.com/fwojciec/offerdoc"
)

var _ offerdoc.Extractor = (*QuestionsExtractor)(nil)

// QuestionsExtractor zips parallel lists into questions, each with at most
// one answer.
type QuestionsExtractor struct {
	env Env
	cfg offerdoc.QuestionsConfig
	ds  *offerdoc.DatasourceConfig
}

// NewQuestionsExtractor creates a QuestionsExtractor.
func NewQuestionsExtractor(env Env, cfg offerdoc.QuestionsConfig, ds *offerdoc.DatasourceConfig) *QuestionsExtractor {
	return &QuestionsExtractor{env: env, cfg: cfg, ds: ds}
}

// Kind returns offerdoc.ExtractorQuestions.
func (x *QuestionsExtractor) Kind() string { return offerdoc.ExtractorQuestions }

// Extract adds the questions of doc to f.
func (x *QuestionsExtractor) Extract(_ context.Context, doc offerdoc.Document, locale string, f *offerdoc.Fragment) error {
	texts, _ := x.env.many(doc, "questions", x.cfg.Questions)
	if len(texts) == 0 {
		return nil
	}
	lists, ok := zipLists(x.env, doc, "questions", len(texts), map[string]string{
		"authors":       x.cfg.Authors,
		"dates":         x.cfg.Dates,
		"answers":       x.cfg.Answers,
		"answerAuthors": x.cfg.AnswerAuthors,
		"answerDates":   x.cfg.AnswerDates,
	})
	if !ok {
		return nil
	}

	for i, text := range texts {
		q := offerdoc.Question{
			Text:     text,
			Author:   at(lists["authors"], i),
			Date:     parseDate(x.ds.Provider, at(lists["dates"], i)),
			Language: locale,
		}
		if answer := at(lists["answers"], i); answer != "" {
			q.Answers = []offerdoc.Answer{{
				Text:   answer,
				Author: at(lists["answerAuthors"], i),
				Date:   parseDate(x.ds.Provider, at(lists["answerDates"], i)),
			}}
		}
		if err := f.AddQuestion(q); err != nil {
			x.env.rejected(doc, "question", text, err)
		}
	}
	return nil
}
