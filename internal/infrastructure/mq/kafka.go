package mq

import (
	"log/slog"

	"sealedauction/internal/config"

	"github.com/IBM/sarama"
)

var KafkaProducer sarama.SyncProducer

// InitKafka builds a synchronous producer used by the outbox sender to
// publish domain events.
func InitKafka(cfg *config.KafkaConfig) sarama.SyncProducer {
	kafkaConfig := sarama.NewConfig()
	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Retry.Max = 3
	kafkaConfig.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, kafkaConfig)
	if err != nil {
		slog.Error("kafka producer create failed", "err", err)
		panic(err)
	}

	KafkaProducer = producer
	slog.Info("kafka producer ready", "brokers", cfg.Brokers)
	return producer
}

// SendMessage publishes one message to topic, keyed for partition affinity.
func SendMessage(topic, key, value string) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.StringEncoder(value),
	}

	_, _, err := KafkaProducer.SendMessage(msg)
	return err
}

// CloseKafka flushes and closes the producer.
func CloseKafka() {
	if KafkaProducer != nil {
		KafkaProducer.Close()
	}
}
