package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sealedauction/internal/apperr"
	"sealedauction/internal/infrastructure/database"
	"sealedauction/internal/model"
	"sealedauction/internal/money"
	"sealedauction/internal/repository"
	"sealedauction/pkg/idgen"

	"gorm.io/gorm"
)

const auctionEventsTopic = "auction.events"

// AuctionBidService implements placeBid, grounded on the teacher's
// PayService.Pay: one transaction carrying reservation, bid upsert, ledger
// append, and (here) the anti-snipe extension, instead of Pay's
// order-create-then-deduct sequence.
type AuctionBidService struct {
	db          *gorm.DB
	auctionRepo *repository.AuctionRepository
	userRepo    *repository.UserRepository
	bidRepo     *repository.BidRepository
	ledgerRepo  *repository.LedgerRepository
	outboxRepo  *repository.OutboxRepository
}

func NewAuctionBidService(db *gorm.DB) *AuctionBidService {
	return &AuctionBidService{
		db:          db,
		auctionRepo: repository.NewAuctionRepository(db),
		userRepo:    repository.NewUserRepository(db),
		bidRepo:     repository.NewBidRepository(db),
		ledgerRepo:  repository.NewLedgerRepository(db),
		outboxRepo:  repository.NewOutboxRepository(db),
	}
}

type PlaceBidResult struct {
	Ok        bool   `json:"ok"`
	AuctionID string `json:"auctionId"`
	UserID    string `json:"userId"`
	EntryID   string `json:"entryId"`
	BidCents  int64  `json:"bidCents"`
}

// PlaceBid implements spec.md §4.4 steps 1-8 inside a single transaction.
func (s *AuctionBidService) PlaceBid(ctx context.Context, auctionID, userID string, amountCents int64, entryID string) (*PlaceBidResult, error) {
	if entryID == "" {
		entryID = model.DefaultEntryID
	}
	if err := money.ValidatePositiveCents(amountCents); err != nil {
		return nil, apperr.Of(apperr.CodeAmountMustBePositive)
	}

	var result *PlaceBidResult

	err := database.Transaction(ctx, s.db, func(tx *gorm.DB) error {
		now := time.Now()

		// Step 1: load auction and user.
		auction, err := s.auctionRepo.GetByIDTx(ctx, tx, auctionID)
		if err != nil {
			if errors.Is(err, repository.ErrAuctionNotFound) {
				return apperr.Of(apperr.CodeAuctionNotFound)
			}
			return err
		}
		if _, err := s.userRepo.GetByIDTx(ctx, tx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return apperr.Of(apperr.CodeUserNotFound)
			}
			return err
		}

		// Step 2: auction must be running, open, not settling, before end.
		if auction.Status != model.AuctionStatusRunning {
			if auction.Status == model.AuctionStatusEnded {
				return apperr.Of(apperr.CodeAuctionEnded)
			}
			return apperr.Of(apperr.CodeAuctionNotRunning)
		}
		if auction.RemainingItems <= 0 {
			return apperr.Of(apperr.CodeAuctionEnded)
		}
		if auction.Settling {
			return apperr.Of(apperr.CodeAuctionIsSettling)
		}
		if auction.CurrentRoundEndsAt == nil || !auction.CurrentRoundEndsAt.After(now) {
			return apperr.Of(apperr.CodeAuctionRoundEnded)
		}
		if amountCents < auction.MinBidCents {
			return apperr.Of(apperr.CodeBidBelowMin)
		}

		// Step 3: load existing bid for the triple, enforce strict increase.
		existing, err := s.bidRepo.GetForUpdate(ctx, tx, auctionID, userID, entryID)
		var prev int64
		if err != nil {
			if !errors.Is(err, repository.ErrBidNotFound) {
				return err
			}
			existing = nil
		} else {
			prev = existing.AmountCents
		}
		if amountCents <= prev {
			return apperr.Of(apperr.CodeBidMustIncrease)
		}
		delta := amountCents - prev

		// Step 4 + 5: reserve delta cents, gated on available balance —
		// mirrors the teacher's Account.Deduct.
		if err := s.userRepo.Reserve(ctx, tx, userID, delta); err != nil {
			if errors.Is(err, repository.ErrBalanceNotEnough) {
				return apperr.Of(apperr.CodeInsufficientAvailableBalance)
			}
			return err
		}

		// Step 6: upsert bid.
		if err := s.bidRepo.Upsert(ctx, tx, auctionID, userID, entryID, amountCents, now, existing); err != nil {
			return err
		}

		// Step 7: append RESERVE ledger entry.
		entry := &model.LedgerEntry{
			UserID:      userID,
			Kind:        model.LedgerKindReserve,
			AmountCents: delta,
			RefType:     "bid",
			RefID:       auctionID + ":" + userID + ":" + entryID + ":" + idgen.NewToken(),
		}
		if err := s.ledgerRepo.Append(ctx, tx, entry); err != nil {
			return err
		}

		// Step 8: anti-snipe extension, gated on the auction still being on
		// the round this transaction observed. The actual seconds applied
		// (and the cap against AntiSnipeMaxTotalExtensionSec) are computed
		// inside ExtendRound against the row's committed counter, not here
		// against this transaction's read of it — see ExtendRound.
		if inAntiSnipeWindow(auction, now) {
			if _, err := s.auctionRepo.ExtendRound(ctx, tx, auctionID, auction.CurrentRound, auction.AntiSnipeExtensionSec, auction.AntiSnipeMaxTotalExtensionSec); err != nil {
				return err
			}
		}

		if payload, merr := json.Marshal(map[string]interface{}{
			"auctionId": auctionID,
			"userId":    userID,
			"entryId":   entryID,
			"bidCents":  amountCents,
		}); merr == nil {
			msg := &model.OutboxMessage{
				MessageKey: auctionID,
				Topic:      auctionEventsTopic,
				Payload:    "{\"type\":\"BID_PLACED\",\"data\":" + string(payload) + "}",
			}
			if err := s.outboxRepo.Create(ctx, tx, msg); err != nil {
				return err
			}
		}

		result = &PlaceBidResult{Ok: true, AuctionID: auctionID, UserID: userID, EntryID: entryID, BidCents: amountCents}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// inAntiSnipeWindow reports whether a bid landing at now should trigger an
// anti-snipe extension (spec.md §4.4 step 8) — i.e. whether now falls
// inside AntiSnipeWindowSec of the current round's deadline. It does not
// decide how many seconds to add or whether the extension budget has
// already been spent: that clamp is computed by ExtendRound against the
// committed extension counter, not against this (possibly stale) read.
func inAntiSnipeWindow(auction *model.Auction, now time.Time) bool {
	if auction.AntiSnipeWindowSec <= 0 || auction.AntiSnipeExtensionSec <= 0 || auction.CurrentRoundEndsAt == nil {
		return false
	}
	windowStart := auction.CurrentRoundEndsAt.Add(-time.Duration(auction.AntiSnipeWindowSec) * time.Second)
	return !now.Before(windowStart)
}
