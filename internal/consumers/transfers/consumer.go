package transfers

import (
	"context"
	"encoding/json"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/mateoavila/nft-transfers/internal/dispatch"
	transferevents "github.com/mateoavila/nft-transfers/internal/transfers"
	"github.com/mateoavila/nft-transfers/pkg/db"
	"github.com/mateoavila/nft-transfers/pkg/logger"
)

type dedupeReleaser interface {
	Del(ctx context.Context, keys ...string) error
	TransferSeenKey(txHash, tokenKey, kind string) string
}

// Consumer drains the transfers subscription and routes each event through
// the dispatch pipeline. A dispatch failure on one message never blocks the
// next; redelivery is per message via nack.
type Consumer struct {
	subscription *pubsub.Subscriber
	dispatcher   *dispatch.Dispatcher
	dedupe       dedupeReleaser
	logg         *logger.Logger
}

// NewConsumer constructs a consumer bound to the transfers subscription.
// The dedupe releaser is optional; when set, a failed dispatch clears the
// transfer's seen-mark so the redelivered message is admitted again.
func NewConsumer(subscription *pubsub.Subscriber, dispatcher *dispatch.Dispatcher, dedupe dedupeReleaser, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("transfers subscription is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		subscription: subscription,
		dispatcher:   dispatcher,
		dedupe:       dedupe,
		logg:         logg,
	}, nil
}

// Run processes messages until the context is canceled or the subscription errors.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	logCtx := c.logg.WithField(ctx, "message_id", msg.ID)

	var transfer transferevents.Transfer
	if err := json.Unmarshal(msg.Data, &transfer); err != nil {
		// A malformed payload will never decode on redelivery.
		c.logg.Error(logCtx, "failed to decode transfer payload", err)
		return processResult{ack: true}
	}

	if err := transfer.Validate(); err != nil {
		c.logg.Error(logCtx, "invalid transfer payload", err)
		return processResult{ack: true}
	}

	logCtx = c.logg.WithFields(logCtx, transfer.LogFields())

	if err := c.dispatcher.Dispatch(ctx, transfer); err != nil {
		if db.IsTransient(err) {
			c.logg.Warn(logCtx, "transfer dispatch hit a transient failure, redelivering")
		} else {
			c.logg.Error(logCtx, "transfer dispatch failed, redelivering", err)
		}
		c.releaseDedupeMark(ctx, transfer)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

// releaseDedupeMark clears the seen-mark set by the admission filter so the
// redelivered message is not mistaken for a duplicate.
func (c *Consumer) releaseDedupeMark(ctx context.Context, t transferevents.Transfer) {
	if c.dedupe == nil {
		return
	}
	key := c.dedupe.TransferSeenKey(t.TxHash, t.TokenKey(), t.Kind.String())
	if err := c.dedupe.Del(ctx, key); err != nil {
		c.logg.Warn(c.logg.WithFields(ctx, t.LogFields()), "failed to clear transfer seen-mark")
	}
}
