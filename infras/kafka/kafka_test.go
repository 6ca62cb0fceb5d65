package kafka_test

import (
	"context"
	"encoding/json"
	"slotbook/config"
	"slotbook/infras/kafka"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	EventType string `json:"eventType"`
}

func TestToKafkaMessage(t *testing.T) {
	msg := kafka.Message{Key: "BK-ANNA-123456", Value: event{EventType: "booking_created"}}

	out, err := msg.ToKafkaMessage("booking-events")
	require.NoError(t, err)

	assert.Equal(t, "booking-events", out.Topic)
	assert.Equal(t, []byte("BK-ANNA-123456"), out.Key)
	assert.JSONEq(t, `{"eventType":"booking_created"}`, string(out.Value))
}

func TestToKafkaMessageMarshalError(t *testing.T) {
	msg := kafka.Message{Key: "k", Value: make(chan int)}

	_, err := msg.ToKafkaMessage("booking-events")
	assert.Error(t, err)
}

func TestDecodeKafkaMessage(t *testing.T) {
	value, err := json.Marshal(event{EventType: "email_sent"})
	require.NoError(t, err)

	decoded, err := kafka.DecodeKafkaMessage[event](kafkaGo.Message{Key: []byte("k"), Value: value})
	require.NoError(t, err)

	assert.Equal(t, "k", decoded.Key)
	assert.Equal(t, event{EventType: "email_sent"}, decoded.Value)

	_, err = kafka.DecodeKafkaMessage[event](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
}

func TestClientWithoutBrokers(t *testing.T) {
	client := kafka.New(&config.Config{})

	assert.False(t, client.Ready())
	assert.Error(t, client.SendMessages(context.Background(), "booking-events", kafka.Message{Key: "k"}))
	assert.NoError(t, client.Close())
}
