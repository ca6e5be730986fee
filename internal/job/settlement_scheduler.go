package job

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"sealedauction/internal/apperr"
	"sealedauction/internal/config"
	"sealedauction/internal/infrastructure/lock"
	"sealedauction/internal/repository"
	"sealedauction/internal/service"
	"sealedauction/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SettlementScheduler implements spec.md §4.6: a single process-local
// ticker with an in-flight re-entrancy guard, plus a Redis SETNX guard so
// that under horizontal deployment at most one process's ticker performs a
// given tick's due-auction scan. Ticker shape, Start/Stop/stopCh mirror the
// teacher's job.OrderTimeoutJob.
type SettlementScheduler struct {
	db            *gorm.DB
	auctionRepo   *repository.AuctionRepository
	settleService *service.AuctionSettleService
	cfg           *config.SchedulerConfig
	redisClient   *redis.Client
	holderID      string
	stopCh        chan struct{}
	inFlight      atomic.Bool
}

func NewSettlementScheduler(db *gorm.DB, redisClient *redis.Client, cfg *config.SchedulerConfig) *SettlementScheduler {
	return &SettlementScheduler{
		db:            db,
		auctionRepo:   repository.NewAuctionRepository(db),
		settleService: service.NewAuctionSettleService(db),
		cfg:           cfg,
		redisClient:   redisClient,
		holderID:      idgen.NewToken(),
		stopCh:        make(chan struct{}),
	}
}

func (s *SettlementScheduler) Start(ctx context.Context) {
	slog.Info("settlement scheduler started", "interval", s.cfg.Interval())

	ticker := time.NewTicker(s.cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("settlement scheduler stopping on context cancel")
			return
		case <-s.stopCh:
			slog.Info("settlement scheduler stopped")
			return
		case <-ticker.C:
			s.runTick(ctx)
		}
	}
}

func (s *SettlementScheduler) Stop() {
	close(s.stopCh)
}

func (s *SettlementScheduler) runTick(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer s.inFlight.Store(false)

	tickLock := lock.NewSchedulerTickLock(s.redisClient, s.holderID, s.cfg.TickTimeout())
	acquired, err := tickLock.TryLock(ctx)
	if err != nil {
		slog.Error("scheduler: tick lock error, proceeding uncoordinated", "err", err)
	} else if !acquired {
		// Another process already owns this tick. Not an error: this lock
		// is a throughput optimization, not a correctness requirement.
		return
	} else {
		defer tickLock.Unlock(ctx)
	}

	tickCtx, cancel := context.WithTimeout(ctx, s.cfg.TickTimeout())
	defer cancel()

	now := time.Now()

	released, err := s.auctionRepo.ForceReleaseStaleLeases(tickCtx, now.Add(-s.cfg.StaleLease()))
	if err != nil {
		slog.Error("scheduler: stale lease sweep failed", "err", err)
	} else if released > 0 {
		slog.Warn("scheduler: force-released stale settlement leases", "count", released)
	}

	due, err := s.auctionRepo.ListDue(tickCtx, now)
	if err != nil {
		slog.Error("scheduler: due-auction scan failed", "err", err)
		return
	}

	for _, auction := range due {
		settled, err := s.settleService.SettleRound(tickCtx, auction.ID, now)
		if err != nil {
			if ae, ok := apperr.As(err); ok && ae.Code == apperr.CodeInvariantReservedLTBid {
				// Data-integrity invariant violation, not a transient
				// failure: the lease is released on rollback so the next
				// tick just re-fails the same round forever without
				// operator intervention. Logged distinctly from routine
				// settlement errors so it can be alerted on separately.
				slog.Error("scheduler: INVARIANT VIOLATION settling round, operator attention required",
					"alert", true, "auctionId", auction.ID, "round", auction.CurrentRound, "code", ae.Code, "err", ae.Message)
				continue
			}
			slog.Error("scheduler: settleRound failed", "auctionId", auction.ID, "err", err)
			continue
		}
		if settled {
			slog.Info("scheduler: round settled", "auctionId", auction.ID, "round", auction.CurrentRound)
		}
	}
}
