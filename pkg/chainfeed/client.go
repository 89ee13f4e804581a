// Package chainfeed maintains a websocket subscription to the chain
// gateway's event stream and delivers decoded events on a channel.
package chainfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// ClientConfig configures websocket client behavior.
type ClientConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is the maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// ReadTimeout is the timeout for reading messages.
	ReadTimeout time.Duration
}

// DefaultConfig returns the default websocket configuration.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		ReadTimeout:       60 * time.Second,
	}
}

// Client subscribes to the chain gateway over a websocket.
type Client struct {
	endpoint string
	config   ClientConfig
	log      *logrus.Entry
}

// NewClient creates a chain feed client for the given endpoint.
func NewClient(endpoint string, config *ClientConfig) *Client {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	return &Client{
		endpoint: endpoint,
		config:   cfg,
		log:      logrus.WithField("component", "chainfeed"),
	}
}

// Subscribe connects and delivers events until ctx is cancelled. The
// returned channel is closed on cancellation. Connection drops are
// retried with capped exponential backoff.
func (c *Client) Subscribe(ctx context.Context, since int64) (<-chan Event, error) {
	conn, err := c.dial(ctx, since)
	if err != nil {
		return nil, err
	}

	events := make(chan Event)
	go c.readLoop(ctx, conn, since, events)
	return events, nil
}

func (c *Client) dial(ctx context.Context, since int64) (*websocket.Conn, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial: %w", err)
	}
	if err := conn.WriteJSON(map[string]interface{}{"op": "subscribe", "since": since}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("websocket subscribe: %w", err)
	}
	return conn, nil
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn, since int64, events chan<- Event) {
	defer close(events)
	defer func() { conn.Close() }()

	delay := c.config.ReconnectDelay
	for {
		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.WithError(err).Warn("chain feed read failed, reconnecting")
			conn.Close()

			conn, err = c.redial(ctx, since, &delay)
			if err != nil {
				return
			}
			continue
		}
		delay = c.config.ReconnectDelay

		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			c.log.WithError(err).Warn("skipping malformed chain event")
			continue
		}
		if ev.CreatedAt > since {
			since = ev.CreatedAt
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// redial retries the connection with capped exponential backoff until it
// succeeds or ctx is cancelled.
func (c *Client) redial(ctx context.Context, since int64, delay *time.Duration) (*websocket.Conn, error) {
	for {
		select {
		case <-time.After(*delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		conn, err := c.dial(ctx, since)
		if err == nil {
			return conn, nil
		}
		c.log.WithError(err).Warn("chain feed reconnect failed")

		*delay *= 2
		if *delay > c.config.MaxReconnectDelay {
			*delay = c.config.MaxReconnectDelay
		}
	}
}
