package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/IBM/sarama"
)

const kafkaQueueSize = 256

// ErrQueueFull is returned when the broker falls too far behind.
var ErrQueueFull = errors.New("kafka event queue full")

// KafkaPublisher writes events to a topic keyed by order id, so every event
// for one order lands on the same partition. Publish only queues the message;
// a single sender goroutine delivers them in order.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string

	mu     sync.RWMutex
	closed bool
	queue  chan *sarama.ProducerMessage
	done   chan struct{}
}

func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	log.Printf("✅ Kafka producer connected to %v", brokers)
	return producer, nil
}

func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		queue:    make(chan *sarama.ProducerMessage, kafkaQueueSize),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *KafkaPublisher) Publish(_ context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.Order.ID),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(ev.Type)},
		},
		Metadata: fmt.Sprintf("%s for %s", ev.Type, ev.Order.OrderNumber),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("publish %s for %s: publisher closed", ev.Type, ev.Order.OrderNumber)
	}
	select {
	case p.queue <- msg:
		return nil
	default:
		return fmt.Errorf("publish %s for %s: %w", ev.Type, ev.Order.OrderNumber, ErrQueueFull)
	}
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for msg := range p.queue {
		partition, offset, err := p.producer.SendMessage(msg)
		if err != nil {
			log.Printf("❌ Failed to publish %v: %v", msg.Metadata, err)
			continue
		}
		log.Printf("📤 Published %v (partition %d, offset %d)", msg.Metadata, partition, offset)
	}
}

// Close delivers what is already queued, then closes the producer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
	return p.producer.Close()
}
