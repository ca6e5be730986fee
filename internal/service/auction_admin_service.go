package service

import (
	"context"
	"errors"
	"time"

	"sealedauction/internal/apperr"
	"sealedauction/internal/config"
	"sealedauction/internal/model"
	"sealedauction/internal/repository"
	"sealedauction/pkg/idgen"

	"gorm.io/gorm"
)

// AuctionAdminService covers auction lifecycle (create/start) and the
// read-only queries the façade exposes (getAuction, leaderboard, winners,
// invariants). Grounded on the teacher's AccountService for the
// create-then-read shape; the invariants check has no teacher analogue and
// is built directly from spec.md §8's I1/I2 definitions.
type AuctionAdminService struct {
	db          *gorm.DB
	cfg         *config.AuctionConfig
	auctionRepo *repository.AuctionRepository
	userRepo    *repository.UserRepository
	bidRepo     *repository.BidRepository
	winnerRepo  *repository.WinnerRepository
}

func NewAuctionAdminService(db *gorm.DB, cfg *config.AuctionConfig) *AuctionAdminService {
	return &AuctionAdminService{
		db:          db,
		cfg:         cfg,
		auctionRepo: repository.NewAuctionRepository(db),
		userRepo:    repository.NewUserRepository(db),
		bidRepo:     repository.NewBidRepository(db),
		winnerRepo:  repository.NewWinnerRepository(db),
	}
}

type CreateAuctionInput struct {
	Title                         string
	MinBidCents                   int64
	TotalItems                    int
	ItemsPerRound                 int
	RoundDurationSec              int
	AntiSnipeWindowSec            int
	AntiSnipeExtensionSec         int
	AntiSnipeMaxTotalExtensionSec int
}

// CreateAuction validates the ranges from spec.md §6 and persists a draft.
func (s *AuctionAdminService) CreateAuction(ctx context.Context, in CreateAuctionInput) (*model.Auction, error) {
	if in.TotalItems < 1 || in.TotalItems > s.cfg.MaxTotalItems {
		return nil, apperr.Of(apperr.CodeTotalItemsMustBePositive)
	}
	if in.ItemsPerRound < 1 || in.ItemsPerRound > s.cfg.MaxItemsPerRound || in.ItemsPerRound > in.TotalItems {
		return nil, apperr.Of(apperr.CodeItemsPerRoundGTTotal)
	}
	if in.RoundDurationSec < s.cfg.MinRoundDurationSec || in.RoundDurationSec > s.cfg.MaxRoundDurationSec {
		return nil, apperr.Of(apperr.CodeRoundDurationTooSmall)
	}
	if in.AntiSnipeWindowSec < 0 || in.AntiSnipeWindowSec > s.cfg.MaxAntiSnipeWindowSec {
		return nil, apperr.New(apperr.CodeValidation, "antiSnipeWindowSec out of range")
	}
	if in.AntiSnipeExtensionSec < 0 || in.AntiSnipeExtensionSec > s.cfg.MaxAntiSnipeExtensionSec {
		return nil, apperr.New(apperr.CodeValidation, "antiSnipeExtensionSec out of range")
	}
	if in.AntiSnipeMaxTotalExtensionSec < 0 || in.AntiSnipeMaxTotalExtensionSec > s.cfg.MaxAntiSnipeMaxTotalExtensionSec {
		return nil, apperr.New(apperr.CodeValidation, "antiSnipeMaxTotalExtensionSec out of range")
	}
	if in.MinBidCents < 1 {
		return nil, apperr.Of(apperr.CodeAmountMustBePositive)
	}

	auction := &model.Auction{
		ID:                            idgen.GenerateAuctionID(),
		Title:                         in.Title,
		MinBidCents:                   in.MinBidCents,
		TotalItems:                    in.TotalItems,
		ItemsPerRound:                 in.ItemsPerRound,
		RoundDurationSec:              in.RoundDurationSec,
		AntiSnipeWindowSec:            in.AntiSnipeWindowSec,
		AntiSnipeExtensionSec:         in.AntiSnipeExtensionSec,
		AntiSnipeMaxTotalExtensionSec: in.AntiSnipeMaxTotalExtensionSec,
		Status:                        model.AuctionStatusDraft,
		RemainingItems:                in.TotalItems,
		NextGiftNumber:                1,
	}
	if err := s.auctionRepo.Create(ctx, auction); err != nil {
		return nil, err
	}
	return auction, nil
}

// StartAuction transitions draft -> running, opening the first round.
func (s *AuctionAdminService) StartAuction(ctx context.Context, auctionID string) (*model.Auction, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return nil, apperr.Of(apperr.CodeAuctionNotFound)
		}
		return nil, err
	}
	if !model.CanTransitionTo(auction.Status, model.AuctionStatusRunning) {
		return nil, apperr.Of(apperr.CodeAuctionNotDraft)
	}

	now := time.Now()
	if err := s.auctionRepo.Start(ctx, auctionID, now, auction.RoundDurationSec); err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return nil, apperr.Of(apperr.CodeAuctionNotDraft)
		}
		return nil, err
	}
	return s.auctionRepo.GetByID(ctx, auctionID)
}

type GetAuctionResult struct {
	Auction *model.Auction   `json:"auction"`
	Winners []*model.Winner  `json:"winners"`
}

func (s *AuctionAdminService) GetAuction(ctx context.Context, auctionID string) (*GetAuctionResult, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return nil, apperr.Of(apperr.CodeAuctionNotFound)
		}
		return nil, err
	}
	winners, err := s.winnerRepo.ListByAuction(ctx, auctionID, 200)
	if err != nil {
		return nil, err
	}
	return &GetAuctionResult{Auction: auction, Winners: winners}, nil
}

func (s *AuctionAdminService) Leaderboard(ctx context.Context, auctionID string, limit int) ([]*model.Bid, error) {
	return s.bidRepo.Leaderboard(ctx, auctionID, limit)
}

func (s *AuctionAdminService) Winners(ctx context.Context, auctionID string, limit int) ([]*model.Winner, error) {
	return s.winnerRepo.ListByAuction(ctx, auctionID, limit)
}

type InvariantsReport struct {
	OK                   bool     `json:"ok"`
	SumActiveBidsCents   int64    `json:"sumActiveBidsCents"`
	SumUserReservedCents int64    `json:"sumUserReservedCents"`
	Mismatch             []string `json:"mismatch"`
	Negatives            []string `json:"negatives"`
	WinnerCount          int64    `json:"winnerCount"`
	ItemsAwarded         int      `json:"itemsAwarded"`
	WinnerCountMismatch  bool     `json:"winnerCountMismatch"`
}

// CheckInvariants recomputes I1/I2 from spec.md §8 for one auction without
// mutating anything: every user who touches this auction must have
// reservedCents covering exactly the sum of their active bids in it, no
// wallet field may be negative, and the number of winner rows recorded must
// equal the number of items the auction has awarded so far.
func (s *AuctionAdminService) CheckInvariants(ctx context.Context, auctionID string) (*InvariantsReport, error) {
	auction, err := s.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, repository.ErrAuctionNotFound) {
			return nil, apperr.Of(apperr.CodeAuctionNotFound)
		}
		return nil, err
	}

	bids, err := s.bidRepo.AllActive(ctx, s.db, auctionID)
	if err != nil {
		return nil, err
	}

	byUser := map[string]int64{}
	for _, b := range bids {
		byUser[b.UserID] += b.AmountCents
	}

	users := map[string]*model.User{}
	for userID := range byUser {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		users[userID] = user
	}

	winnerCount, err := s.winnerRepo.CountByAuction(ctx, auctionID)
	if err != nil {
		return nil, err
	}

	report := evaluateInvariants(byUser, users)
	report.WinnerCount = winnerCount
	report.ItemsAwarded = auction.TotalItems - auction.RemainingItems
	if winnerCount != int64(report.ItemsAwarded) {
		report.WinnerCountMismatch = true
		report.OK = false
	}

	return report, nil
}

// evaluateInvariants is the pure part of CheckInvariants: given each
// auction's per-user sum of active bids and the current wallet state for
// those same users, it reports I1 (no negative wallet field) and I2
// (reservedCents equals the sum of active bids) without touching the
// database.
func evaluateInvariants(sumBidsByUser map[string]int64, users map[string]*model.User) *InvariantsReport {
	report := &InvariantsReport{OK: true, Mismatch: []string{}, Negatives: []string{}}

	for userID, sumBids := range sumBidsByUser {
		report.SumActiveBidsCents += sumBids

		user := users[userID]
		if user.AvailableCents < 0 || user.ReservedCents < 0 {
			report.Negatives = append(report.Negatives, userID)
			report.OK = false
		}
		report.SumUserReservedCents += user.ReservedCents
		if user.ReservedCents != sumBids {
			report.Mismatch = append(report.Mismatch, userID)
			report.OK = false
		}
	}

	return report
}
