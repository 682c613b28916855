//go:build integration

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"leadcrm/pkg/testutil/containers"
)

type KafkaPublisherSuite struct {
	suite.Suite
	redpanda *containers.RedpandaContainer
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.redpanda = containers.GetManager().GetRedpanda(s.T())
}

func (s *KafkaPublisherSuite) TestPublishRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	topic := "leadcrm.events.test"
	pub, err := NewKafkaPublisher(KafkaConfig{Brokers: s.redpanda.Brokers, Topic: topic}, slog.New(slog.DiscardHandler))
	s.Require().NoError(err)
	defer pub.Close()

	s.Require().NoError(pub.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(pub.EnsureTopic(ctx, 1, 1), "second call must tolerate an existing topic")

	s.Require().NoError(pub.Publish(ctx, Event{
		Type:       TypeLeadSubmitted,
		Key:        "lead-42",
		OccurredAt: time.Now().UTC(),
		Payload:    map[string]string{"form_number": "ORN-12345"},
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.redpanda.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().NotEmpty(records)

	rec := records[0]
	s.Equal("lead-42", string(rec.Key))
	s.Equal(TypeLeadSubmitted, string(rec.Headers[0].Value))

	var evt Event
	s.Require().NoError(json.Unmarshal(rec.Value, &evt))
	s.Equal(TypeLeadSubmitted, evt.Type)
}
