package transfers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/mateoavila/nft-transfers/pkg/logger"
)

const defaultPublishTimeout = 15 * time.Second

// Publisher hands a validated transfer to the async pipeline.
type Publisher interface {
	PublishTransfer(ctx context.Context, t Transfer) error
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type topicPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) publishResult
}

type pubsubPublisher struct {
	topic   topicPublisher
	timeout time.Duration
	logg    *logger.Logger
}

// NewPublisher wraps a Pub/Sub topic publisher for transfer events.
func NewPublisher(topic *pubsub.Publisher, logg *logger.Logger) (Publisher, error) {
	if topic == nil {
		return nil, fmt.Errorf("transfers topic publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &pubsubPublisher{
		topic:   &gcpTopic{topic},
		timeout: defaultPublishTimeout,
		logg:    logg,
	}, nil
}

func (p *pubsubPublisher) PublishTransfer(ctx context.Context, t Transfer) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transfer: %w", err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode transfer: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result := p.topic.Publish(publishCtx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"tx_hash":  t.TxHash,
			"chain_id": t.ChainID,
			"kind":     t.Kind.String(),
		},
	})
	if result == nil {
		return fmt.Errorf("publisher returned nil result")
	}

	msgID, err := result.Get(publishCtx)
	if err != nil {
		return fmt.Errorf("publish transfer: %w", err)
	}

	logCtx := p.logg.WithFields(ctx, t.LogFields())
	p.logg.Info(p.logg.WithField(logCtx, "message_id", msgID), "transfer enqueued")
	return nil
}

type gcpTopic struct {
	pub *pubsub.Publisher
}

func (g *gcpTopic) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	if g == nil || g.pub == nil {
		return nil
	}
	return g.pub.Publish(ctx, msg)
}
