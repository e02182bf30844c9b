package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	domain "github.com/gabzlaundry/gab/internal/entity"
	"github.com/gabzlaundry/gab/internal/usecase"
)

// One queue per routing key; the notification consumer reads both.
const (
	OrderCreatedQueue = "laundry.order.created.q"
	OrderReadyQueue   = "laundry.order.ready.q"
)

// RabbitProducer fans order events out through a topic exchange. It
// implements usecase.EventPublisher.
type RabbitProducer struct {
	ch       *amqp.Channel
	exchange string
}

// NewRabbitProducer declares the exchange, the event queues and their
// bindings once at startup, then enables publisher confirms.
func NewRabbitProducer(ch *amqp.Channel, exchange string) (*RabbitProducer, error) {
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	bindings := map[string]string{
		OrderCreatedQueue: domain.NotifyOrderCreated,
		OrderReadyQueue:   domain.NotifyOrderReady,
	}
	for queue, rk := range bindings {
		q, err := ch.QueueDeclare(
			queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("declare queue %s: %w", queue, err)
		}
		if err := ch.QueueBind(q.Name, rk, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitProducer{ch: ch, exchange: exchange}, nil
}

func (p *RabbitProducer) PublishOrderCreated(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	return p.publish(ctx, domain.NotifyOrderCreated, msg)
}

func (p *RabbitProducer) PublishOrderReady(ctx context.Context, msg usecase.OrderReadyMsg) error {
	return p.publish(ctx, domain.NotifyOrderReady, msg)
}

func (p *RabbitProducer) publish(ctx context.Context, routingKey string, msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         body,
	}

	if err := p.ch.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

var _ usecase.EventPublisher = (*RabbitProducer)(nil)
