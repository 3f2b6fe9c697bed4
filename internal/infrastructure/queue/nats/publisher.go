// Package nats publishes document lifecycle events for downstream
// catalog and lineage consumers. Events are advisory; the editing flow
// never blocks on them.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

type Publisher struct {
	conn          *nats.Conn
	subjectPrefix string
	now           func() time.Time
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
}

func New(url, subjectPrefix string) (*Publisher, error) {
	return NewWithOptions(url, subjectPrefix, Options{})
}

func NewWithOptions(url, subjectPrefix string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}
	if subjectPrefix == "" {
		subjectPrefix = "datadoc.document"
	}

	conn, err := nats.Connect(
		url,
		nats.Name("datadoc"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{
		conn:          conn,
		subjectPrefix: subjectPrefix,
		now:           time.Now,
	}, nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

type documentEvent struct {
	DocumentRef string    `json:"document_ref"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (p *Publisher) PublishDocumentOpened(_ context.Context, ref string) error {
	return p.publish(p.subjectPrefix+".opened", ref)
}

func (p *Publisher) PublishDocumentSaved(_ context.Context, ref string) error {
	return p.publish(p.subjectPrefix+".saved", ref)
}

func (p *Publisher) publish(subject, ref string) error {
	payload, err := json.Marshal(documentEvent{
		DocumentRef: ref,
		OccurredAt:  p.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// NoopPublisher satisfies the event port when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishDocumentOpened(context.Context, string) error { return nil }
func (NoopPublisher) PublishDocumentSaved(context.Context, string) error  { return nil }
