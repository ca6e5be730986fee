package job

import (
	"context"
	"log/slog"
	"time"

	"sealedauction/internal/config"
	"sealedauction/internal/infrastructure/mq"
	"sealedauction/internal/model"
	"sealedauction/internal/repository"

	"gorm.io/gorm"
)

// OutboxSender drains pending outbox rows to Kafka, kept from the teacher's
// job.OutboxSender in mechanism: poll, send, mark sent/retry/failed.
type OutboxSender struct {
	db         *gorm.DB
	outboxRepo *repository.OutboxRepository
	cfg        *config.Config
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewOutboxSender(db *gorm.DB, cfg *config.Config) *OutboxSender {
	return &OutboxSender{
		db:         db,
		outboxRepo: repository.NewOutboxRepository(db),
		cfg:        cfg,
		stopCh:     make(chan struct{}),
		interval:   100 * time.Millisecond,
		batchSize:  100,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	slog.Info("outbox sender started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("outbox sender stopping on context cancel")
			return
		case <-s.stopCh:
			slog.Info("outbox sender stopped")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

func (s *OutboxSender) processPendingMessages(ctx context.Context) {
	messages, err := s.outboxRepo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		slog.Error("outbox: query pending failed", "err", err)
		return
	}
	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) {
	err := mq.SendMessage(msg.Topic, msg.MessageKey, msg.Payload)

	if err == nil {
		if updateErr := s.outboxRepo.UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); updateErr != nil {
			slog.Error("outbox: mark sent failed", "id", msg.ID, "err", updateErr)
		}
		return
	}

	slog.Warn("outbox: send failed", "id", msg.ID, "err", err)

	if err := s.outboxRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
		slog.Error("outbox: increment retry count failed", "id", msg.ID, "err", err)
	}

	if msg.RetryCount+1 >= s.cfg.Outbox.MaxRetryCount {
		if err := s.outboxRepo.MarkAsFailed(ctx, msg.ID); err != nil {
			slog.Error("outbox: mark failed failed", "id", msg.ID, "err", err)
		} else {
			slog.Error("outbox: message exceeded max retries, marked failed", "id", msg.ID)
		}
	}
}
