package nats_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/offerdoc"
	offernats "github.com/fwojciec/offerdoc/nats"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// publisher records published messages.
type publisher struct {
	PublishMsgFn func(msg *nats.Msg) error
}

func (p *publisher) PublishMsg(msg *nats.Msg) error {
	return p.PublishMsgFn(msg)
}

func TestIndexer_IndexFragment(t *testing.T) {
	t.Parallel()

	t.Run("publishes fragment json on the datasource subject", func(t *testing.T) {
		t.Parallel()

		var got *nats.Msg
		idx := offernats.NewIndexer(&publisher{PublishMsgFn: func(msg *nats.Msg) error {
			got = msg
			return nil
		}}, offernats.WithSubject("offers"))
		f := offerdoc.NewFragment("https://shop.example/p/1", "Shop.Example")
		f.AddName("Sonicare")

		require.NoError(t, idx.IndexFragment(context.Background(), f))

		require.NotNil(t, got)
		assert.Equal(t, "offers.shop_example", got.Subject)
		assert.Equal(t, "https://shop.example/p/1", got.Header.Get("Offer-Url"))
		var decoded offerdoc.Fragment
		require.NoError(t, json.Unmarshal(got.Data, &decoded))
		assert.Equal(t, []string{"Sonicare"}, decoded.Names)
	})

	t.Run("injects trace context into headers", func(t *testing.T) {
		t.Parallel()

		var got *nats.Msg
		idx := offernats.NewIndexer(&publisher{PublishMsgFn: func(msg *nats.Msg) error {
			got = msg
			return nil
		}}, offernats.WithPropagator(propagation.TraceContext{}))

		traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		require.NoError(t, err)
		spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
		require.NoError(t, err)
		ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		}))

		require.NoError(t, idx.IndexFragment(ctx, offerdoc.NewFragment("https://shop.example/p/1", "shop")))

		assert.Equal(t, "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01", got.Header.Get("traceparent"))
		assert.Equal(t, offernats.DefaultSubject+".shop", got.Subject)
	})

	t.Run("wraps publish errors", func(t *testing.T) {
		t.Parallel()

		idx := offernats.NewIndexer(&publisher{PublishMsgFn: func(*nats.Msg) error {
			return nats.ErrConnectionClosed
		}})

		err := idx.IndexFragment(context.Background(), offerdoc.NewFragment("https://shop.example/p/1", "shop"))

		assert.True(t, errors.Is(err, nats.ErrConnectionClosed))
	})

	t.Run("rejects nil fragments", func(t *testing.T) {
		t.Parallel()

		idx := offernats.NewIndexer(&publisher{})

		err := idx.IndexFragment(context.Background(), nil)

		assert.Equal(t, offerdoc.EINVALID, offerdoc.ErrorCode(err))
	})
}
