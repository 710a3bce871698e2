package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"enrollment-module/logger"

	"github.com/segmentio/kafka-go"
)

// Consumer reads events from one topic and hands each decoded payload to a
// handler. Used for the email queue: email.send events published by the
// payment flow are delivered to the SMTP sender out-of-band.
type Consumer struct {
	reader  *kafka.Reader
	handler func(map[string]interface{}) error
	stop    chan struct{}
	done    chan struct{}
	log     *logger.Logger
}

// NewConsumer builds a consumer-group reader for the given topic. Returns a
// no-op consumer when no brokers are configured.
func NewConsumer(brokerList, topic, groupID string, handler func(map[string]interface{}) error, log *logger.Logger) *Consumer {
	c := &Consumer{handler: handler, log: log}

	var brokers []string
	for _, b := range strings.Split(brokerList, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	if len(brokers) == 0 {
		log.Info("Kafka consumer is disabled (no brokers configured)")
		return c
	}

	c.reader = kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
		MaxBytes:       10e6,
		SessionTimeout: 20 * time.Second,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
	})
	c.stop = make(chan struct{})
	c.done = make(chan struct{})

	log.Info("Kafka consumer initialized. Brokers=%v, Topic=%s, Group=%s", brokers, topic, groupID)
	return c
}

// Start begins consuming in a background goroutine.
func (c *Consumer) Start() {
	if c.reader == nil {
		return
	}
	go c.consume()
	c.log.Info("Kafka consumer started")
}

func (c *Consumer) consume() {
	defer close(c.done)

	for {
		select {
		case <-c.stop:
			return
		default:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		msg, err := c.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			if err == context.DeadlineExceeded {
				continue
			}
			// Coordinator errors are expected while the broker settles
			if strings.Contains(err.Error(), "Group Coordinator Not Available") {
				time.Sleep(time.Second)
				continue
			}
			c.log.Warn("Kafka read error: %v", err)
			time.Sleep(time.Second)
			continue
		}

		var payload map[string]interface{}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			c.log.Error("Invalid Kafka message on %s: %v", msg.Topic, err)
			continue
		}

		if err := c.handler(payload); err != nil {
			c.log.Error("Error processing Kafka message (key=%s): %v", string(msg.Key), err)
		}
	}
}

// Stop signals the consume loop to exit and closes the reader.
func (c *Consumer) Stop() error {
	if c.reader == nil {
		return nil
	}
	close(c.stop)
	<-c.done
	return c.reader.Close()
}
