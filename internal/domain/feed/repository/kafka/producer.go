// Package kafka contains Kafka repository implementations
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/feedfusion/bot-service/config"
	"github.com/feedfusion/bot-service/internal/domain/feed/deps"
	"github.com/feedfusion/bot-service/internal/domain/feed/entities"
)

// Kafka topics for subscription change events consumed by the fetcher side
const (
	TopicSubscriptionCreated = "subscriptions.created"
	TopicSubscriptionDeleted = "subscriptions.deleted"
)

// subscriptionEvent is the wire format of a subscription change event
type subscriptionEvent struct {
	UserTelegramID    string `json:"user_telegram_id"`
	ChannelTelegramID string `json:"channel_telegram_id"`
	ChannelTitle      string `json:"channel_title,omitempty"`
	OccurredAt        string `json:"occurred_at"`
}

// Producer implements deps.SubscriptionEventProducer
type Producer struct {
	producer sarama.SyncProducer
	logger   zerolog.Logger
}

// NewProducer creates a new Kafka producer that implements deps.SubscriptionEventProducer
func NewProducer(cfg *config.KafkaConfig, logger zerolog.Logger) (deps.SubscriptionEventProducer, error) {
	brokers := cfg.Brokers
	if len(brokers) == 0 {
		brokers = []string{"localhost:9093"}
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", brokers).Msg("Kafka producer initialized successfully")

	return &Producer{
		producer: producer,
		logger:   logger,
	}, nil
}

// SendSubscriptionCreated publishes a subscription created event
func (p *Producer) SendSubscriptionCreated(ctx context.Context, user *entities.User, channel *entities.Channel) error {
	return p.sendEvent(ctx, TopicSubscriptionCreated, subscriptionEvent{
		UserTelegramID:    user.TelegramID,
		ChannelTelegramID: channel.TelegramID,
		ChannelTitle:      channel.Title,
		OccurredAt:        time.Now().UTC().Format(time.RFC3339),
	})
}

// SendSubscriptionDeleted publishes a subscription deleted event
func (p *Producer) SendSubscriptionDeleted(ctx context.Context, user *entities.User, channel *entities.Channel) error {
	return p.sendEvent(ctx, TopicSubscriptionDeleted, subscriptionEvent{
		UserTelegramID:    user.TelegramID,
		ChannelTelegramID: channel.TelegramID,
		OccurredAt:        time.Now().UTC().Format(time.RFC3339),
	})
}

// sendEvent sends an event to specified Kafka topic
func (p *Producer) sendEvent(ctx context.Context, topic string, event subscriptionEvent) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.ChannelTelegramID),
		Value: sarama.ByteEncoder(jsonData),
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		p.logger.Error().Err(err).Str("topic", topic).Msg("Failed to send Kafka message")
		return err
	}

	p.logger.Info().
		Str("topic", topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Kafka message sent successfully")

	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	p.logger.Info().Msg("Kafka producer closed successfully")
	return nil
}
