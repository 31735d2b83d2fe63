package archive

import (
	"context"
	"log"

	"github.com/segmentio/kafka-go"
)

// KafkaRecorder publishes transcript lines to a Kafka topic.
type KafkaRecorder struct {
	writer *kafka.Writer
}

func NewKafkaRecorder(brokers []string, topic string) *KafkaRecorder {
	return &KafkaRecorder{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (r *KafkaRecorder) Record(line string) {
	err := r.writer.WriteMessages(context.Background(), kafka.Message{Value: []byte(line)})
	if err != nil {
		log.Printf("Error publishing transcript line to Kafka: %v", err)
	}
}

func (r *KafkaRecorder) Close() error {
	return r.writer.Close()
}
