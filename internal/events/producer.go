package events

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/pemafoods/pdv/internal/sales"
)

// Producer buffers sale events and writes them to Kafka from its own
// goroutine, so a slow broker never stalls a checkout commit.
type Producer struct {
	w       *kafka.Writer
	inbox   chan kafka.Message
	closeCh chan struct{}
}

func NewProducer(brokers []string, topic string, buf int) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

func (p *Producer) Start(ctx context.Context) {
	go func() {
		defer close(p.closeCh)
		for {
			select {
			case <-ctx.Done():
				// Flush what is already queued, then stop.
				for {
					select {
					case m := <-p.inbox:
						p.write(m)
					default:
						_ = p.w.Close()
						return
					}
				}
			case m := <-p.inbox:
				p.write(m)
			}
		}
	}()
}

func (p *Producer) write(m kafka.Message) {
	if err := p.w.WriteMessages(context.Background(), m); err != nil {
		log.Printf("[events] write failed: %v", err)
	}
}

// SaleCompleted enqueues the event; a full inbox drops it with a log
// line rather than blocking the commit path.
func (p *Producer) SaleCompleted(o *sales.CompletedOrder) {
	value, err := newSaleCompleted(o)
	if err != nil {
		log.Printf("[events] encode failed for order %s: %v", o.ID, err)
		return
	}
	m := kafka.Message{Key: partitionKey(o.ID), Value: value, Time: time.Now()}
	select {
	case p.inbox <- m:
	default:
		log.Printf("[events] inbox full, dropping sale.completed for %s", o.ID)
	}
}

// WaitClosed blocks until the writer goroutine has flushed and exited.
func (p *Producer) WaitClosed() { <-p.closeCh }
