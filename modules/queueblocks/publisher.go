package queueblocks

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// App is the adapter name queue blocks request from the execution context.
const App = "queue"

// Publisher is the message broker capability. Implementations must be safe
// for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// AMQPPublisher publishes to a RabbitMQ broker. Channel use is serialized
// because AMQP channels are not safe for concurrent publishing.
type AMQPPublisher struct {
	conn *amqp.Connection

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPPublisher dials the broker and opens a channel.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch}, nil
}

// Close shuts the channel and connection down.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func (p *AMQPPublisher) Publish(ctx context.Context, queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring queue %q: %w", queue, err)
	}
	err := p.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType: "application/octet-stream",
		Body:        body,
	})
	if err != nil {
		return fmt.Errorf("publishing to %q: %w", queue, err)
	}
	return nil
}

// MemoryPublisher collects published messages in memory for tests and local
// runs without a broker.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

// NewMemoryPublisher creates an empty in-memory publisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{messages: make(map[string][][]byte)}
}

func (p *MemoryPublisher) Publish(_ context.Context, queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages[queue] = append(p.messages[queue], append([]byte(nil), body...))
	return nil
}

// Messages returns a copy of everything published to the given queue.
func (p *MemoryPublisher) Messages(queue string) [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := make([][]byte, len(p.messages[queue]))
	for i, m := range p.messages[queue] {
		msgs[i] = append([]byte(nil), m...)
	}
	return msgs
}
