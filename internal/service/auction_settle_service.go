package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sealedauction/internal/apperr"
	"sealedauction/internal/infrastructure/database"
	"sealedauction/internal/model"
	"sealedauction/internal/repository"
	"sealedauction/pkg/idgen"

	"gorm.io/gorm"
)

// AuctionSettleService implements settleRound, grounded on the teacher's
// RefundService.Refund (status-gated transaction, ledger append, outbox
// emit) and OrderRepository.UpdateStatus (the conditional-write state
// machine, generalized here into the settlement lease and round advance).
type AuctionSettleService struct {
	db          *gorm.DB
	auctionRepo *repository.AuctionRepository
	userRepo    *repository.UserRepository
	bidRepo     *repository.BidRepository
	winnerRepo  *repository.WinnerRepository
	ledgerRepo  *repository.LedgerRepository
	outboxRepo  *repository.OutboxRepository
}

func NewAuctionSettleService(db *gorm.DB) *AuctionSettleService {
	return &AuctionSettleService{
		db:          db,
		auctionRepo: repository.NewAuctionRepository(db),
		userRepo:    repository.NewUserRepository(db),
		bidRepo:     repository.NewBidRepository(db),
		winnerRepo:  repository.NewWinnerRepository(db),
		ledgerRepo:  repository.NewLedgerRepository(db),
		outboxRepo:  repository.NewOutboxRepository(db),
	}
}

// SettleRound implements spec.md §4.5 steps 1-8. Returns (false, nil) when
// no lease could be acquired (another worker holds it, the round isn't
// due, or the auction moved on) — that is not an error, just a skip.
func (s *AuctionSettleService) SettleRound(ctx context.Context, auctionID string, now time.Time) (settled bool, err error) {
	lockID := idgen.NewToken()

	err = database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		// Step 1: acquire lease.
		auction, lerr := s.auctionRepo.AcquireLease(ctx, tx, auctionID, lockID, now)
		if lerr != nil {
			if errors.Is(lerr, repository.ErrLeaseNotAcquired) {
				return nil
			}
			return lerr
		}

		// Step 2: defensive guard against status/timer skew.
		if auction.CurrentRoundEndsAt == nil {
			return s.auctionRepo.ReleaseLease(ctx, tx, auctionID, lockID)
		}

		round := auction.CurrentRound
		k := auction.ItemsPerRound
		if auction.RemainingItems < k {
			k = auction.RemainingItems
		}

		// Step 3-4: winner selection, deterministic tiebreak.
		winningBids, werr := s.bidRepo.TopActive(ctx, tx, auctionID, k)
		if werr != nil {
			return werr
		}

		// Step 5: charge each winner.
		for i, bid := range winningBids {
			giftNumber := auction.NextGiftNumber + i
			winner := &model.Winner{
				AuctionID:   auctionID,
				Round:       round,
				GiftNumber:  giftNumber,
				UserID:      bid.UserID,
				EntryID:     bid.EntryID,
				AmountCents: bid.AmountCents,
			}
			if err := s.winnerRepo.Create(ctx, tx, winner); err != nil {
				return err
			}
			if err := s.userRepo.ChargeReserved(ctx, tx, bid.UserID, bid.AmountCents); err != nil {
				if errors.Is(err, repository.ErrReservedLessThanBid) {
					return apperr.New(apperr.CodeInvariantReservedLTBid,
						"reserved_cents below winning bid for user "+bid.UserID+" in auction "+auctionID)
				}
				return err
			}
			entry := &model.LedgerEntry{
				UserID:      bid.UserID,
				Kind:        model.LedgerKindCharge,
				AmountCents: bid.AmountCents,
				RefType:     "winner",
				RefID:       auctionID + ":" + idgen.NewToken(),
			}
			if err := s.ledgerRepo.Append(ctx, tx, entry); err != nil {
				return err
			}
			if err := s.bidRepo.Deactivate(ctx, tx, bid.ID); err != nil {
				return err
			}
		}

		// Step 6: advance item/gift counters.
		if len(winningBids) > 0 {
			if err := s.auctionRepo.AdvanceAfterWinners(ctx, tx, auctionID, len(winningBids)); err != nil {
				return err
			}
		}

		remainingAfter := auction.RemainingItems - len(winningBids)

		if remainingAfter == 0 {
			if !model.CanTransitionTo(auction.Status, model.AuctionStatusEnded) {
				return apperr.Of(apperr.CodeAuctionNotRunning)
			}
			// Step 7: pool exhausted — refund every still-active bid and end.
			losers, lerr := s.bidRepo.AllActive(ctx, tx, auctionID)
			if lerr != nil {
				return lerr
			}
			for _, bid := range losers {
				if err := s.userRepo.RefundReserved(ctx, tx, bid.UserID, bid.AmountCents); err != nil {
					if errors.Is(err, repository.ErrReservedLessThanBid) {
						return apperr.New(apperr.CodeInvariantReservedLTBid,
							"reserved_cents below refund amount for user "+bid.UserID+" in auction "+auctionID)
					}
					return err
				}
				entry := &model.LedgerEntry{
					UserID:      bid.UserID,
					Kind:        model.LedgerKindRefund,
					AmountCents: bid.AmountCents,
					RefType:     "auction_end",
					RefID:       auctionID + ":" + idgen.NewToken(),
				}
				if err := s.ledgerRepo.Append(ctx, tx, entry); err != nil {
					return err
				}
				if err := s.bidRepo.Deactivate(ctx, tx, bid.ID); err != nil {
					return err
				}
			}
			if err := s.auctionRepo.EndAuction(ctx, tx, auctionID); err != nil {
				return err
			}
			if err := s.emitEvent(ctx, tx, auctionID, "AUCTION_ENDED", map[string]interface{}{
				"auctionId": auctionID,
				"round":     round,
			}); err != nil {
				return err
			}
		} else {
			// Step 8: advance the round.
			if err := s.auctionRepo.AdvanceRound(ctx, tx, auctionID, now, auction.RoundDurationSec); err != nil {
				return err
			}
		}

		if err := s.emitEvent(ctx, tx, auctionID, "ROUND_SETTLED", map[string]interface{}{
			"auctionId":   auctionID,
			"round":       round,
			"winnerCount": len(winningBids),
		}); err != nil {
			return err
		}

		if err := s.auctionRepo.ReleaseLease(ctx, tx, auctionID, lockID); err != nil {
			return err
		}

		settled = true
		return nil
	})
	if err != nil {
		// Best-effort post-abort lease release, fenced on the same token —
		// an optimization, not a correctness requirement (the stale-lease
		// sweep is the real safety net per spec.md §9).
		_ = s.auctionRepo.ReleaseLease(ctx, nil, auctionID, lockID)
		return false, err
	}
	return settled, nil
}

func (s *AuctionSettleService) emitEvent(ctx context.Context, tx *gorm.DB, auctionID, eventType string, data map[string]interface{}) error {
	payload, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	if err != nil {
		return err
	}
	msg := &model.OutboxMessage{
		MessageKey: auctionID,
		Topic:      auctionEventsTopic,
		Payload:    string(payload),
	}
	return s.outboxRepo.Create(ctx, tx, msg)
}
