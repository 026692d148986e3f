package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog"
)

// receiver is the part of pulsar.Consumer used by EventConsumer.
type receiver interface {
	Receive(ctx context.Context) (pulsar.Message, error)
	Ack(msg pulsar.Message) error
	Nack(msg pulsar.Message)
	Close()
}

type EventConsumer struct {
	client   pulsar.Client
	consumer receiver
	log      *zerolog.Logger
}

// NewEventConsumer initializes the Pulsar client and a shared subscription
// on the change-event topic.
func NewEventConsumer(pulsarURL, topic, subscription string, log *zerolog.Logger) (*EventConsumer, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{URL: pulsarURL})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            topic,
		SubscriptionName: subscription,
		Type:             pulsar.Shared,
		DLQ: &pulsar.DLQPolicy{
			MaxDeliveries:   3,
			DeadLetterTopic: topic + "-dlq",
		},
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar consumer: %w", err)
	}

	return &EventConsumer{client: client, consumer: consumer, log: log}, nil
}

// Consume hands each received event to handle until ctx is done. Events that
// cannot be decoded, or that handle rejects, are nacked.
func (c *EventConsumer) Consume(ctx context.Context, handle func(EventPayload) error) error {
	for {
		msg, err := c.consumer.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error().Err(err).Msg("Error receiving message")
			return fmt.Errorf("failed to receive message: %w", err)
		}

		event, err := Decode(msg.Payload())
		if err != nil {
			c.log.Warn().Err(err).Msg("dropping malformed change event")
			c.consumer.Nack(msg)
			continue
		}

		if err := handle(event); err != nil {
			c.log.Error().Err(err).Str("slice", event.Slice).Msg("failed to handle change event")
			c.consumer.Nack(msg)
			continue
		}

		if err := c.consumer.Ack(msg); err != nil {
			c.log.Warn().Err(err).Msg("failed to ack change event")
		}
	}
}

// Close cleans up the Pulsar consumer and client.
func (c *EventConsumer) Close() {
	c.consumer.Close()
	if c.client != nil {
		c.client.Close()
	}
}
