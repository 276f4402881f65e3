package events

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

func DialRabbit(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

// RabbitBridge fans signals out through a topic exchange. Each process owns an
// exclusive, auto-deleted queue bound to its group.
type RabbitBridge struct {
	ch     *amqp.Channel
	bus    *Bus
	group  string
	logger *log.Logger

	queue       string
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewRabbitBridge(conn *amqp.Connection, bus *Bus, group string, logger *log.Logger) (*RabbitBridge, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareSignalsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare signals exchange: %w", err)
	}

	q, err := ch.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // autoDelete
		true,  // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}

	if err := ch.QueueBind(q.Name, groupBinding(group), SignalsExchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	return &RabbitBridge{ch: ch, bus: bus, group: group, logger: logger, queue: q.Name}, nil
}

func (rb *RabbitBridge) Start(ctx context.Context) error {
	msgs, err := rb.ch.Consume(
		rb.queue,
		"storefront-"+rb.bus.Origin(), // consumer tag
		true,                          // autoAck: signals are fire-and-forget
		true,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	rb.unsubscribe = rb.bus.Subscribe(rb.forward)

	rb.wg.Add(1)
	go func() {
		defer rb.wg.Done()
		for {
			select {
			case <-ctx.Done():
				rb.logger.Println("stopping signal consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					rb.logger.Println("signal deliveries channel closed")
					return
				}
				rb.receive(msg.Body)
			}
		}
	}()

	return nil
}

func (rb *RabbitBridge) receive(body []byte) {
	s, ok, err := decodeRemote(body, rb.group)
	if err != nil {
		rb.logger.Printf("drop signal: %v", err)
		return
	}
	if ok {
		rb.bus.Inject(s)
	}
}

// forward publishes signals raised in this process only.
func (rb *RabbitBridge) forward(ctx context.Context, s Signal) {
	if s.Origin != rb.bus.Origin() {
		return
	}
	body, err := encodeSignal(s, rb.group)
	if err != nil {
		rb.logger.Printf("forward signal: %v", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = rb.ch.PublishWithContext(
		pubCtx,
		SignalsExchange,
		routingKey(rb.group, s.Kind),
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Transient,
			MessageId:     s.ID,
			CorrelationId: s.CorrelationID,
			Timestamp:     s.OccurredAt,
			Body:          body,
		},
	)
	if err != nil {
		rb.logger.Printf("publish signal %s: %v", s.Kind, err)
	}
}

func (rb *RabbitBridge) Close() error {
	if rb.unsubscribe != nil {
		rb.unsubscribe()
	}
	err := rb.ch.Close()
	rb.wg.Wait()
	return err
}
