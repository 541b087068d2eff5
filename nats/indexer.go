// Package nats hands merged fragments off to downstream consumers over NATS.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/offerdoc"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// DefaultSubject prefixes the subjects fragments are published on.
const DefaultSubject = "offerdoc.fragments"

var _ offerdoc.FragmentIndexer = (*Indexer)(nil)

// Publisher is the part of *nats.Conn the indexer needs.
type Publisher interface {
	PublishMsg(msg *nats.Msg) error
}

// Indexer publishes every merged fragment as JSON on
// "<subject>.<datasource>". Trace context is carried in message headers.
type Indexer struct {
	pub        Publisher
	subject    string
	propagator propagation.TextMapPropagator
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithSubject sets the subject prefix.
func WithSubject(subject string) Option {
	return func(i *Indexer) { i.subject = subject }
}

// WithPropagator sets the propagator used to inject trace context. It
// defaults to the global otel propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(i *Indexer) { i.propagator = p }
}

// NewIndexer creates an Indexer publishing through pub.
func NewIndexer(pub Publisher, opts ...Option) *Indexer {
	i := &Indexer{pub: pub, subject: DefaultSubject}
	for _, opt := range opts {
		opt(i)
	}
	if i.propagator == nil {
		i.propagator = otel.GetTextMapPropagator()
	}
	return i
}

// Subject returns the subject fragments of datasource are published on.
func (i *Indexer) Subject(datasource string) string {
	token := strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		}
		return r
	}, strings.ToLower(datasource))
	if token == "" {
		token = "_"
	}
	return i.subject + "." + token
}

// IndexFragment publishes f.
func (i *Indexer) IndexFragment(ctx context.Context, f *offerdoc.Fragment) error {
	if f == nil {
		return offerdoc.Errorf(offerdoc.EINVALID, "nothing to index")
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to encode fragment %s: %w", f.URL, err)
	}
	msg := &nats.Msg{
		Subject: i.Subject(f.DatasourceName),
		Data:    data,
		Header:  nats.Header{},
	}
	msg.Header.Set("Offer-Url", f.URL)
	i.propagator.Inject(ctx, (*headerCarrier)(msg))
	if err := i.pub.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish fragment %s: %w", f.URL, err)
	}
	return nil
}

// headerCarrier adapts nats.Msg headers to propagation.TextMapCarrier.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}
