package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog"
)

// Slice names carried in events.
const (
	SliceDirectory = "directory"
	SliceTeam      = "team"
	SliceProjects  = "projects"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// EventPayload announces a committed change to one state slice.
type EventPayload struct {
	Slice     string    `json:"slice"`
	Action    string    `json:"action"` // create, update, delete
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier publishes change events. Notify must not block on the broker.
type Notifier interface {
	Notify(event EventPayload) error
	Close()
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) Notify(EventPayload) error { return nil }
func (NopNotifier) Close()                    {}

// producer is the part of pulsar.Producer used by EventPublisher.
type producer interface {
	SendAsync(ctx context.Context, msg *pulsar.ProducerMessage, callback func(pulsar.MessageID, *pulsar.ProducerMessage, error))
	Close()
}

type EventPublisher struct {
	client   pulsar.Client
	producer producer
	log      *zerolog.Logger
}

// NewEventPublisher initializes the Pulsar client and producer
func NewEventPublisher(pulsarURL, topic string, log *zerolog.Logger) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	p, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	log.Info().Str("topic", topic).Msg("Pulsar client and producer initialized successfully")
	return &EventPublisher{client: client, producer: p, log: log}, nil
}

// Notify queues the event for sending. Delivery failures are logged.
func (p *EventPublisher) Notify(event EventPayload) error {
	message, err := Encode(event)
	if err != nil {
		return err
	}

	p.producer.SendAsync(context.Background(), &pulsar.ProducerMessage{
		Key:     event.Slice,
		Payload: message,
	}, func(_ pulsar.MessageID, _ *pulsar.ProducerMessage, err error) {
		if err != nil {
			p.log.Error().Err(err).Str("slice", event.Slice).Str("action", event.Action).Msg("could not send event to Pulsar")
			return
		}
		p.log.Debug().RawJSON("event", message).Msg("Event sent to Pulsar")
	})
	return nil
}

// Close flushes pending sends and closes the producer and client
func (p *EventPublisher) Close() {
	p.producer.Close()
	if p.client != nil {
		p.client.Close()
	}
	p.log.Info().Msg("Pulsar client and producer closed successfully")
}

func Encode(event EventPayload) ([]byte, error) {
	message, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("could not serialize event payload: %w", err)
	}
	return message, nil
}

func Decode(data []byte) (EventPayload, error) {
	var event EventPayload
	if err := json.Unmarshal(data, &event); err != nil {
		return EventPayload{}, fmt.Errorf("could not deserialize event payload: %w", err)
	}
	return event, nil
}
