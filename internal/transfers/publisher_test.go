package transfers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/mateoavila/nft-transfers/pkg/enums"
	"github.com/mateoavila/nft-transfers/pkg/logger"
)

type stubResult struct {
	id  string
	err error
}

func (s *stubResult) Get(ctx context.Context) (string, error) {
	return s.id, s.err
}

type stubTopic struct {
	messages []*pubsub.Message
	result   publishResult
}

func (s *stubTopic) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	s.messages = append(s.messages, msg)
	return s.result
}

func validTransfer() Transfer {
	return Transfer{
		TxHash:         "0xhash",
		ChainID:        "1",
		CollectionAddr: "0xcollection",
		TokenID:        "3",
		From:           "0xa",
		To:             "0xb",
		TimestampMs:    1_700_000_000_000,
		Kind:           enums.TransferKindApply,
	}
}

func newStubPublisher(topic *stubTopic) *pubsubPublisher {
	return &pubsubPublisher{
		topic:   topic,
		timeout: time.Second,
		logg:    logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	}
}

func TestPublishTransferEncodesEvent(t *testing.T) {
	t.Parallel()

	topic := &stubTopic{result: &stubResult{id: "m1"}}
	pub := newStubPublisher(topic)

	if err := pub.PublishTransfer(context.Background(), validTransfer()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(topic.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(topic.messages))
	}

	var decoded Transfer
	if err := json.Unmarshal(topic.messages[0].Data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded != validTransfer() {
		t.Fatalf("expected round-tripped transfer, got %+v", decoded)
	}
	if topic.messages[0].Attributes["tx_hash"] != "0xhash" {
		t.Fatalf("expected tx hash attribute, got %v", topic.messages[0].Attributes)
	}
}

func TestPublishTransferRejectsInvalid(t *testing.T) {
	t.Parallel()

	topic := &stubTopic{result: &stubResult{id: "m1"}}
	pub := newStubPublisher(topic)

	invalid := validTransfer()
	invalid.To = ""
	if err := pub.PublishTransfer(context.Background(), invalid); err == nil {
		t.Fatal("expected validation error")
	}
	if len(topic.messages) != 0 {
		t.Fatal("expected nothing published for an invalid transfer")
	}
}

func TestPublishTransferSurfacesPublishError(t *testing.T) {
	t.Parallel()

	topic := &stubTopic{result: &stubResult{err: fmt.Errorf("broker unavailable")}}
	pub := newStubPublisher(topic)

	if err := pub.PublishTransfer(context.Background(), validTransfer()); err == nil {
		t.Fatal("expected the broker failure to surface")
	}
}
