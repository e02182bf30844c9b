package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/logging"
	"github.com/gabzlaundry/gab/internal/usecase"
)

// NewGroup builds the consumer group the station listener runs on.
func NewGroup(brokers []string, groupID string) (sarama.ConsumerGroup, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_6_0_0
	cfg.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Net.DialTimeout = 5 * time.Second
	return sarama.NewConsumerGroup(brokers, groupID, cfg)
}

// StationHandlerFunc processes one decoded station event.
type StationHandlerFunc func(ctx context.Context, ev usecase.StationEventMsg) error

// Consumer consumes the station-events topic with a single handler.
type Consumer struct {
	group  sarama.ConsumerGroup
	topics []string
	handle StationHandlerFunc
	log    *slog.Logger
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h StationHandlerFunc) *Consumer {
	return &Consumer{
		group:  group,
		topics: topics,
		handle: h,
		log:    logging.New("kafka-stations"),
	}
}

// Start blocks until ctx is cancelled or the group fails.
func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.handle, log: c.log}
	for {
		if err := c.group.Consume(ctx, c.topics, handler); err != nil {
			return err
		}
		// Consume returns on rebalance; only a cancelled ctx ends the loop.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type cgHandler struct {
	handle StationHandlerFunc
	log    *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var ev usecase.StationEventMsg
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			h.log.Warn("station event decode failed", "err", err, "offset", msg.Offset)
			// mark to avoid reprocessing poison
			sess.MarkMessage(msg, "decode-error")
			continue
		}

		ctx := logging.WithCtx(sess.Context(), h.log)
		if err := h.handle(ctx, ev); err != nil {
			if retryable(err) {
				h.log.Error("station event failed, leaving for redelivery",
					"order_id", ev.OrderID, "station", ev.Station, "err", err)
				continue
			}
			h.log.Warn("station event dropped",
				"order_id", ev.OrderID, "station", ev.Station, "err", err)
		}
		sess.MarkMessage(msg, "")
	}
	return nil
}

// retryable reports whether redelivery could succeed. Unknown orders and
// stale transitions never will, so those are marked and skipped.
func retryable(err error) bool {
	switch domain.ErrorCode(err) {
	case domain.EINVALID, domain.ENOTFOUND, domain.ECONFLICT:
		return false
	}
	return true
}
