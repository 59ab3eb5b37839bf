// Package pubsub announces marketplace events such as a claimed gig or an
// earned credit to whoever listens on the topics.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

const (
	TopicGigClaimed        = "gig-claimed"
	TopicSubmissionCreated = "submission-created"
	TopicCreditEarned      = "credit-earned"
	TopicPayoutSent        = "payout-sent"
)

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
	prefix string
}

// NewPublisher creates a PubSubPublisher. prefix is prepended to every topic name.
func NewPublisher(ctx context.Context, projectID, prefix string) (*PubSubPublisher, error) {
	if projectID == "" {
		return nil, fmt.Errorf("failed to create Pub/Sub client: project id is empty")
	}
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client, prefix: prefix}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(p.prefix + topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// Message is a published payload kept by Memory.
type Message struct {
	Topic   string
	Payload []byte
}

// Memory keeps published messages in order. It backs the simulation and tests.
type Memory struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{Topic: topic, Payload: append([]byte(nil), payload...)})
	return strconv.Itoa(len(m.messages)), nil
}

// Messages returns what was published to topic, or everything when topic is empty.
func (m *Memory) Messages(topic string) []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Message
	for _, msg := range m.messages {
		if topic == "" || msg.Topic == topic {
			out = append(out, msg)
		}
	}
	return out
}

// Emit JSON-encodes event and publishes it. Failures are logged and never
// fail the operation that produced the event.
func Emit(ctx context.Context, p Publisher, logger zerolog.Logger, topic string, event any) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("topic", topic).Msg("Failed to encode event")
		return
	}
	id, err := p.Publish(ctx, topic, payload)
	if err != nil {
		logger.Warn().Err(err).Str("topic", topic).Msg("Failed to publish event")
		return
	}
	logger.Debug().Str("topic", topic).Str("message_id", id).Msg("Event published")
}
