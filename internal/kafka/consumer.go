package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// Config describes the single replies topic the bridge consumes.
type Config struct {
	Brokers        []string
	Topic          string
	GroupID        string
	MinBytes       int           // default 1KB
	MaxBytes       int           // default 10MB
	CommitInterval time.Duration // default 1s
}

// Consumer is a thin wrapper around segmentio/kafka-go Reader.
type Consumer struct {
	r *kafka.Reader
}

func NewConsumerFromConfig(c Config) *Consumer {
	rc := kafka.ReaderConfig{
		Brokers:        c.Brokers,
		GroupID:        c.GroupID,
		Topic:          c.Topic,
		MinBytes:       c.MinBytes,
		MaxBytes:       c.MaxBytes,
		CommitInterval: c.CommitInterval,
		MaxWait:        50 * time.Millisecond,
	}
	if rc.MinBytes <= 0 {
		rc.MinBytes = 1 << 10 // 1KB
	}
	if rc.MaxBytes <= 0 {
		rc.MaxBytes = 10 << 20 // 10MB
	}
	if rc.CommitInterval <= 0 {
		rc.CommitInterval = time.Second
	}

	return &Consumer{r: kafka.NewReader(rc)}
}

type Message = kafka.Message

func (c *Consumer) Fetch(ctx context.Context) (Message, error) {
	return c.r.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, m Message) error {
	return c.r.CommitMessages(ctx, m)
}

func (c *Consumer) Close() error { return c.r.Close() }
