// Package eventbus mirrors booking notifications onto a Kafka topic next to the relay.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"slotbook/config"
	"slotbook/infras/kafka"
	"slotbook/internal/domains/booking/gateway"
	"slotbook/internal/domains/booking/model"
	"slotbook/shared/constant"
	"slotbook/shared/timezone"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Event is the record published for every notification. Messages are keyed by event type.
type Event struct {
	EventType gateway.EventType `json:"eventType"`
	Timestamp string            `json:"timestamp"`
	Data      any               `json:"data"`
}

type busImpl struct {
	next   gateway.Notifier
	client kafka.Client
	topic  string
}

// New decorates next so every Notify is also published to the configured topic. Without a
// ready client or a topic next is returned unchanged.
func New(cfg *config.Config, next gateway.Notifier, client kafka.Client) gateway.Notifier {
	topic := cfg.External.Kafka.Topic

	if client == nil || !client.Ready() || topic == "" {
		log.Info().Msg("Event bus not configured, notifications go to the relay only")

		return next
	}

	return &busImpl{
		next:   next,
		client: client,
		topic:  topic,
	}
}

func (b *busImpl) IsReady() bool {
	return b.next.IsReady()
}

func (b *busImpl) SubmitBooking(ctx context.Context, record model.BookingRecord) (gateway.SubmitResult, error) {
	return b.next.SubmitBooking(ctx, record) //nolint:wrapcheck
}

// Notify is accepted when either the relay or the topic took the event.
func (b *busImpl) Notify(ctx context.Context, eventType gateway.EventType, payload any) (gateway.NotifyResult, error) {
	result, relayErr := b.next.Notify(ctx, eventType, payload)

	busErr := b.client.SendMessages(ctx, b.topic, kafka.Message{
		Key: string(eventType),
		Value: Event{
			EventType: eventType,
			Timestamp: timezone.Now().Format(constant.DateFormat),
			Data:      payload,
		},
	})
	if busErr != nil {
		busErr = fmt.Errorf("%w: publish %s: %w", model.ErrNotification, eventType, busErr)
	} else {
		result.Accepted = true
	}

	return result, errors.Join(relayErr, busErr)
}

// Tail consumes the notification topic until ctx is done, handing every decodable event to
// handler. Undecodable messages are logged and skipped.
func Tail(ctx context.Context, cfg *config.Config, client kafka.Client, handler func(event Event)) error {
	topic := cfg.External.Kafka.Topic

	if client == nil || !client.Ready() || topic == "" {
		return errors.New("event bus is not configured")
	}

	client.Consume(ctx, cfg.External.Kafka.ConsumerGroup, topic, func(message kafkaGo.Message) {
		decoded, err := kafka.DecodeKafkaMessage[Event](message)
		if err != nil {
			log.Warn().Err(err).Str("key", string(message.Key)).Msg("skipping undecodable event")

			return
		}

		event, ok := decoded.Value.(Event)
		if !ok {
			return
		}

		handler(event)
	})

	return nil
}
