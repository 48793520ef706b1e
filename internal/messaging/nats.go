// Package messaging distributes detected setups over NATS JetStream.
package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/Brxzee/scalping-bot/pkg/config"
	"github.com/Brxzee/scalping-bot/pkg/models"
)

// NATSClient handles NATS messaging operations
type NATSClient struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewNATSClient creates a new NATS client and ensures the SETUPS stream
// exists.
func NewNATSClient(cfg *config.NATSConfig, log *logrus.Logger) (*NATSClient, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	nc := &NATSClient{
		conn:   conn,
		js:     js,
		logger: log.WithField("component", "nats"),
	}

	if err := nc.initializeStream(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to initialize stream: %w", err)
	}
	return nc, nil
}

// Close closes the NATS connection
func (nc *NATSClient) Close() error {
	nc.conn.Close()
	return nil
}

// IsConnected checks if NATS is connected
func (nc *NATSClient) IsConnected() bool {
	return nc.conn.IsConnected()
}

func (nc *NATSClient) initializeStream() error {
	_, err := nc.js.AddStream(&nats.StreamConfig{
		Name:     "SETUPS",
		Subjects: []string{"setups.>"},
		Storage:  nats.FileStorage,
		MaxAge:   7 * 24 * time.Hour,
		Replicas: 1,
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return fmt.Errorf("failed to create SETUPS stream: %w", err)
	}
	return nil
}

// PublishSetup publishes a setup record to setups.<symbol>.
func (nc *NATSClient) PublishSetup(setup models.SetupRecord) error {
	data, err := json.Marshal(setup)
	if err != nil {
		return fmt.Errorf("failed to marshal setup: %w", err)
	}

	subject := fmt.Sprintf("setups.%s", setup.Symbol)
	if _, err := nc.js.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish setup: %w", err)
	}

	nc.logger.WithFields(logrus.Fields{
		"subject": subject,
		"score":   setup.Score,
	}).Debug("Published setup")
	return nil
}

// SubscribeSetups delivers published setups to the handler. Used by
// downstream consumers and tests.
func (nc *NATSClient) SubscribeSetups(handler func(models.SetupRecord)) (*nats.Subscription, error) {
	return nc.conn.Subscribe("setups.>", func(msg *nats.Msg) {
		var setup models.SetupRecord
		if err := json.Unmarshal(msg.Data, &setup); err != nil {
			nc.logger.WithError(err).Warn("Dropping malformed setup message")
			return
		}
		handler(setup)
	})
}
