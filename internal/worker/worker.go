package worker

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	"catalogsync/internal/config"
	"catalogsync/internal/events"
	"catalogsync/internal/logger"
)

const eventsTopic = "catalogsync.product-events"

type Worker struct {
	config    *config.Config
	logger    *logger.Logger
	reader    *kafka.Reader
	processor *events.Processor
}

func New(cfg *config.Config, log *logger.Logger, processor *events.Processor) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "catalogsync-worker",
		Topic:          eventsTopic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	})

	return &Worker{config: cfg, logger: log, reader: reader, processor: processor}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		if err := w.processor.ProcessRaw(message.Value); err != nil {
			w.logger.Error("Failed to process event: %v", err)
			continue
		}

		w.logger.Debug("Event processed successfully")
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
