package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type KafkaProducer struct {
	brokers []string
	logger  *zap.Logger

	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

type KafkaConsumer struct {
	brokers []string
	groupID string
	logger  *zap.Logger

	mu      sync.Mutex
	readers map[string]*kafka.Reader
}

func NewKafkaProducer(brokers []string, logger *zap.Logger) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		logger:  logger,
		writers: make(map[string]*kafka.Writer),
	}
}

func NewKafkaConsumer(brokers []string, groupID string, logger *zap.Logger) *KafkaConsumer {
	return &KafkaConsumer{
		brokers: brokers,
		groupID: groupID,
		logger:  logger,
		readers: make(map[string]*kafka.Reader),
	}
}

func (kp *KafkaProducer) writer(topic string) *kafka.Writer {
	kp.mu.Lock()
	defer kp.mu.Unlock()

	if writer, exists := kp.writers[topic]; exists {
		return writer
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(kp.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
	}
	kp.writers[topic] = writer
	return writer
}

// Publish JSON-encodes value and writes it keyed by key, so events of one
// user or order stay on one partition.
func (kp *KafkaProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	message := kafka.Message{
		Key:   []byte(key),
		Value: jsonData,
	}

	return kp.writer(topic).WriteMessages(ctx, message)
}

func (kp *KafkaProducer) Close() {
	kp.mu.Lock()
	defer kp.mu.Unlock()
	for topic, writer := range kp.writers {
		if err := writer.Close(); err != nil {
			kp.logger.Warn("Closing Kafka writer failed", zap.String("topic", topic), zap.Error(err))
		}
	}
}

func (kc *KafkaConsumer) reader(topic string) *kafka.Reader {
	kc.mu.Lock()
	defer kc.mu.Unlock()

	if reader, exists := kc.readers[topic]; exists {
		return reader
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  kc.brokers,
		Topic:    topic,
		GroupID:  kc.groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	kc.readers[topic] = reader
	return reader
}

// Consume hands every message of topic to handler until ctx is cancelled.
// Handler errors are logged and the message is committed anyway.
func (kc *KafkaConsumer) Consume(ctx context.Context, topic string, handler func(context.Context, []byte) error) {
	reader := kc.reader(topic)

	for {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			kc.logger.Error("Error reading message", zap.String("topic", topic), zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		if err := handler(ctx, message.Value); err != nil {
			kc.logger.Warn("Error handling message",
				zap.String("topic", topic),
				zap.Int64("offset", message.Offset),
				zap.Error(err))
		}
	}
}

func (kc *KafkaConsumer) Close() {
	kc.mu.Lock()
	defer kc.mu.Unlock()
	for topic, reader := range kc.readers {
		if err := reader.Close(); err != nil {
			kc.logger.Warn("Closing Kafka reader failed", zap.String("topic", topic), zap.Error(err))
		}
	}
}

// Event types
const (
	EventOrderCreated      = "order_created"
	EventCartCleared       = "cart_cleared"
	EventStockReserved     = "stock_reserved"
	EventProductUpdated    = "product_updated"
	EventCategoriesUpdated = "categories_updated"
)

type OrderEvent struct {
	Type        string           `json:"type"`
	OrderID     string           `json:"order_id"`
	OrderNumber string           `json:"order_number"`
	UserID      string           `json:"user_id"`
	FinalAmount int64            `json:"final_amount"`
	Items       []OrderEventItem `json:"items"`
	CreatedAt   time.Time        `json:"created_at"`
}

type OrderEventItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type CartEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	ItemCount int       `json:"item_count"`
	Total     int64     `json:"total"`
	At        time.Time `json:"at"`
}

// CatalogEvent announces a catalog change. Storefront replicas drop their
// cached catalog when they see one.
type CatalogEvent struct {
	Type      string `json:"type"`
	ProductID string `json:"product_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
}
