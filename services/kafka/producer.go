package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"enrollment-module/logger"

	"github.com/segmentio/kafka-go"
)

// Topic names used by the platform.
const (
	TopicPayments = "payments"
	TopicEmails   = "emails"
)

// Producer publishes domain events. A Producer built with no brokers is a
// no-op: every Publish returns nil so event publishing stays best-effort.
type Producer struct {
	writer  *kafka.Writer
	brokers []string
	log     *logger.Logger
}

// NewProducer initializes a Kafka writer from a comma-separated broker list.
func NewProducer(brokerList string, log *logger.Logger) *Producer {
	p := &Producer{log: log}

	var brokers []string
	for _, b := range strings.Split(brokerList, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	if len(brokers) == 0 {
		log.Info("Kafka is disabled (no brokers configured)")
		return p
	}

	p.brokers = brokers
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		Async:        false,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireAll,
	}

	p.ensureTopics([]string{TopicPayments, TopicEmails})

	log.Info("Kafka producer initialized. Brokers=%v", brokers)
	return p
}

// Connected reports whether a broker connection was configured.
func (p *Producer) Connected() bool {
	return p.writer != nil
}

// ensureTopics creates the required topics if they don't already exist.
// Runs in a background goroutine to avoid blocking startup.
func (p *Producer) ensureTopics(topics []string) {
	go func() {
		conn, err := kafka.Dial("tcp", p.brokers[0])
		if err != nil {
			p.log.Warn("Could not connect to Kafka broker for topic creation: %v", err)
			return
		}
		defer conn.Close()

		for _, topic := range topics {
			err := conn.CreateTopics(kafka.TopicConfig{
				Topic:             topic,
				NumPartitions:     1,
				ReplicationFactor: 1,
			})
			if err != nil && !strings.Contains(err.Error(), "already exists") {
				p.log.Warn("Could not create Kafka topic %s: %v", topic, err)
			}
		}
	}()
}

// Publish marshals value to JSON and writes it to the given topic with key.
// Returns nil when Kafka is disabled.
func (p *Producer) Publish(topic, key string, value map[string]interface{}) error {
	if p.writer == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		p.log.Error("Error marshaling Kafka message: %v", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
	})
	if err != nil {
		p.log.Error("Error publishing to Kafka topic %s: %v", topic, err)
		return err
	}

	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
