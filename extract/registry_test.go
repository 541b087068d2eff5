package extract_test

import (
	"context"
	"testing"

	"github.com/fwojciec/offerdoc"
	"github.com/fwojciec/offerdoc/extract"
	"github.com/fwojciec/offerdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Kinds(t *testing.T) {
	t.Parallel()

	r := extract.NewDefaultRegistry(newEnv())

	assert.Equal(t, []string{
		offerdoc.ExtractorComments,
		offerdoc.ExtractorField,
		offerdoc.ExtractorJSON,
		offerdoc.ExtractorJSONLD,
		offerdoc.ExtractorQuestions,
		offerdoc.ExtractorRating,
		offerdoc.ExtractorResources,
		offerdoc.ExtractorTable,
	}, r.Kinds())
}

func TestRegistry_Build(t *testing.T) {
	t.Parallel()

	r := extract.NewDefaultRegistry(newEnv())
	ds := &offerdoc.DatasourceConfig{
		Name: "shop",
		Extractors: []offerdoc.ExtractorConfig{
			{Kind: offerdoc.ExtractorField, Field: &offerdoc.FieldConfig{Names: []string{"//h1"}}},
			{Kind: offerdoc.ExtractorTable, Table: &offerdoc.TableConfig{Rows: "//tr"}},
			{Kind: offerdoc.ExtractorResources},
			{Kind: offerdoc.ExtractorRating, Rating: &offerdoc.RatingConfig{Value: "'4'", Types: []string{"csr"}}},
		},
	}

	extractors, err := r.Build(ds)
	require.NoError(t, err)

	kinds := make([]string, 0, len(extractors))
	for _, x := range extractors {
		kinds = append(kinds, x.Kind())
	}
	assert.Equal(t, []string{offerdoc.ExtractorField, offerdoc.ExtractorTable, offerdoc.ExtractorResources, offerdoc.ExtractorRating}, kinds)
}

func TestRegistry_BuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  offerdoc.ExtractorConfig
	}{
		{"unknown kind", offerdoc.ExtractorConfig{Kind: "magic"}},
		{"missing section", offerdoc.ExtractorConfig{Kind: offerdoc.ExtractorField}},
		{"table without mode", offerdoc.ExtractorConfig{Kind: offerdoc.ExtractorTable, Table: &offerdoc.TableConfig{Key: "//th"}}},
		{"comments without bodies", offerdoc.ExtractorConfig{Kind: offerdoc.ExtractorComments, Comments: &offerdoc.CommentsConfig{Titles: "//h3"}}},
		{"unknown rating type", offerdoc.ExtractorConfig{Kind: offerdoc.ExtractorRating, Rating: &offerdoc.RatingConfig{Value: "'4'", Types: []string{"stars"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := extract.NewDefaultRegistry(newEnv())
			ds := &offerdoc.DatasourceConfig{Name: "shop", Extractors: []offerdoc.ExtractorConfig{tt.cfg}}

			_, err := r.Build(ds)

			assert.Equal(t, offerdoc.ECONFIG, offerdoc.ErrorCode(err))
		})
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	t.Parallel()

	r := extract.NewDefaultRegistry(newEnv())
	custom := &mock.Extractor{
		KindFn:    func() string { return "custom" },
		ExtractFn: func(context.Context, offerdoc.Document, string, *offerdoc.Fragment) error { return nil },
	}
	r.Register(offerdoc.ExtractorField, func(offerdoc.ExtractorConfig, *offerdoc.DatasourceConfig) (offerdoc.Extractor, error) {
		return custom, nil
	})

	extractors, err := r.BuildList(&offerdoc.DatasourceConfig{Name: "shop"}, []offerdoc.ExtractorConfig{{Kind: offerdoc.ExtractorField}})
	require.NoError(t, err)

	require.Len(t, extractors, 1)
	assert.Equal(t, "custom", extractors[0].Kind())
}
