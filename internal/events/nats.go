package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// PublisherMetrics is the subset of the metrics collector the NATS publisher reports to
type PublisherMetrics interface {
	EventPublished()
	EventPublishFailed()
	EventBusUp(connected bool)
}

// NATSPublisher publishes JSON events on "<prefix>.<type>" subjects
type NATSPublisher struct {
	nc      *nats.Conn
	prefix  string
	metrics PublisherMetrics
	logger  *zap.Logger
}

// NewNATSPublisher connects to url. m may be nil.
func NewNATSPublisher(url, subjectPrefix string, m PublisherMetrics, logger *zap.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	setConnected := func(up bool) {
		if m != nil {
			m.EventBusUp(up)
		}
	}

	nc, err := nats.Connect(url,
		nats.Name("eolos-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			setConnected(false)
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			setConnected(true)
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			setConnected(false)
			logger.Info("nats connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	setConnected(true)

	return &NATSPublisher{
		nc:      nc,
		prefix:  subjectToken(subjectPrefix),
		metrics: m,
		logger:  logger,
	}, nil
}

// Subject returns the subject an event type is published on
func (p *NATSPublisher) Subject(t Type) string {
	return subjectFor(p.prefix, t)
}

func subjectFor(prefix string, t Type) string {
	parts := strings.Split(string(t), ".")
	for i := range parts {
		parts[i] = subjectToken(parts[i])
	}
	return prefix + "." + strings.Join(parts, ".")
}

// Publish marshals e and publishes it. The context is only checked before publishing.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.nc.Publish(p.Subject(e.Type), b)
	if p.metrics != nil {
		if err != nil {
			p.metrics.EventPublishFailed()
		} else {
			p.metrics.EventPublished()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", e.Type, err)
	}
	return nil
}

// Close drains pending messages and closes the connection
func (p *NATSPublisher) Close() {
	if p.nc == nil {
		return
	}
	if err := p.nc.Drain(); err != nil {
		p.logger.Warn("nats drain failed", zap.Error(err))
	}
	p.nc.Close()
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, '>', '*' or '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
