//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"cites/internal/audit"
	"cites/pkg/testutil/containers"
)

type KafkaSinkSuite struct {
	suite.Suite
	broker *containers.RedpandaContainer
	sink   *audit.KafkaSink
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	s.broker = containers.NewRedpandaContainer(s.T())
	sink, err := audit.NewKafkaSink(s.broker.Brokers, "cites.audit")
	s.Require().NoError(err)
	s.sink = sink
	s.T().Cleanup(sink.Close)
}

func (s *KafkaSinkSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(s.sink.EnsureTopic(ctx, 1, 1))
	s.Require().NoError(s.sink.EnsureTopic(ctx, 1, 1))
}

func (s *KafkaSinkSuite) TestWriteProducesKeyedRecord() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(s.sink.EnsureTopic(ctx, 1, 1))

	event := audit.Event{
		Timestamp:     time.Now().UTC().Truncate(time.Millisecond),
		Action:        audit.ActionSubmissionPosted,
		UserKey:       "contact-1_org-1",
		SubmissionRef: "25GB000123",
	}
	s.Require().NoError(s.sink.Write(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Brokers...),
		kgo.ConsumeTopics("cites.audit"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().NotEmpty(records)

	var got audit.Event
	s.Require().NoError(json.Unmarshal(records[0].Value, &got))
	s.Equal("contact-1_org-1", string(records[0].Key))
	s.Equal(event.Action, got.Action)
	s.Equal(event.SubmissionRef, got.SubmissionRef)
}
