package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaBridge mirrors signals through one topic. Every process reads with its own
// consumer group (its origin) so each one sees every message.
type KafkaBridge struct {
	w      *kafka.Writer
	r      *kafka.Reader
	bus    *Bus
	group  string
	logger *log.Logger

	unsubscribe func()
	wg          sync.WaitGroup
}

func NewKafkaBridge(brokers []string, topic string, bus *Bus, group string, logger *log.Logger) *KafkaBridge {
	return &KafkaBridge{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			// forward runs on the bus dispatcher; don't wait for a batch to fill
			BatchTimeout: 10 * time.Millisecond,
		},
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     brokers,
			GroupID:     "storefront-" + bus.Origin(),
			Topic:       topic,
			MinBytes:    1,
			MaxBytes:    1e6,
			StartOffset: kafka.LastOffset,
		}),
		bus:    bus,
		group:  group,
		logger: logger,
	}
}

func (kb *KafkaBridge) Start(ctx context.Context) error {
	kb.unsubscribe = kb.bus.Subscribe(kb.forward)

	kb.wg.Add(1)
	go func() {
		defer kb.wg.Done()
		for {
			m, err := kb.r.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() == nil && !errors.Is(err, io.EOF) {
					kb.logger.Printf("signal reader exit: %v", err)
				}
				return
			}
			kb.receive(m.Value)
		}
	}()
	return nil
}

func (kb *KafkaBridge) receive(value []byte) {
	s, ok, err := decodeRemote(value, kb.group)
	if err != nil {
		kb.logger.Printf("drop signal: %v", err)
		return
	}
	if ok {
		kb.bus.Inject(s)
	}
}

func (kb *KafkaBridge) forward(ctx context.Context, s Signal) {
	if s.Origin != kb.bus.Origin() {
		return
	}
	body, err := encodeSignal(s, kb.group)
	if err != nil {
		kb.logger.Printf("forward signal: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	// keyed by group so a group's signals stay on one partition, in order
	if err := kb.w.WriteMessages(ctx, kafka.Message{Key: []byte(kb.group), Value: body}); err != nil {
		kb.logger.Printf("publish signal %s: %v", s.Kind, err)
	}
}

func (kb *KafkaBridge) Close() error {
	if kb.unsubscribe != nil {
		kb.unsubscribe()
	}
	rerr := kb.r.Close()
	kb.wg.Wait()
	werr := kb.w.Close()
	if rerr != nil {
		return fmt.Errorf("close reader: %w", rerr)
	}
	return werr
}
