package service

import (
	"sort"
	"testing"

	"sealedauction/internal/apperr"
	"sealedauction/internal/config"
	"sealedauction/internal/model"
)

func testAuctionConfig() *config.AuctionConfig {
	return &config.AuctionConfig{
		MaxTotalItems:                    1000000,
		MaxItemsPerRound:                 100000,
		MinRoundDurationSec:              10,
		MaxRoundDurationSec:              3600,
		MaxAntiSnipeWindowSec:            3600,
		MaxAntiSnipeExtensionSec:         600,
		MaxAntiSnipeMaxTotalExtensionSec: 3600,
	}
}

func validCreateAuctionInput() CreateAuctionInput {
	return CreateAuctionInput{
		Title:             "sealed box drop",
		MinBidCents:       100,
		TotalItems:        10,
		ItemsPerRound:     2,
		RoundDurationSec:  30,
	}
}

func TestCreateAuctionRejectsOutOfRangeFields(t *testing.T) {
	s := &AuctionAdminService{cfg: testAuctionConfig()}

	tests := []struct {
		name     string
		mutate   func(in *CreateAuctionInput)
		wantCode apperr.Code
	}{
		{
			name:     "zero total items",
			mutate:   func(in *CreateAuctionInput) { in.TotalItems = 0 },
			wantCode: apperr.CodeTotalItemsMustBePositive,
		},
		{
			name:     "items per round exceeds total items",
			mutate:   func(in *CreateAuctionInput) { in.ItemsPerRound = in.TotalItems + 1 },
			wantCode: apperr.CodeItemsPerRoundGTTotal,
		},
		{
			name:     "round duration below the configured minimum",
			mutate:   func(in *CreateAuctionInput) { in.RoundDurationSec = 1 },
			wantCode: apperr.CodeRoundDurationTooSmall,
		},
		{
			name:     "non-positive min bid",
			mutate:   func(in *CreateAuctionInput) { in.MinBidCents = 0 },
			wantCode: apperr.CodeAmountMustBePositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCreateAuctionInput()
			tt.mutate(&in)

			_, err := s.CreateAuction(nil, in)
			ae, ok := apperr.As(err)
			if !ok {
				t.Fatalf("CreateAuction() error = %v, want an *apperr.Error", err)
			}
			if ae.Code != tt.wantCode {
				t.Errorf("CreateAuction() code = %q, want %q", ae.Code, tt.wantCode)
			}
		})
	}
}

func TestEvaluateInvariantsOK(t *testing.T) {
	byUser := map[string]int64{"u1": 500, "u2": 300}
	users := map[string]*model.User{
		"u1": {ID: "u1", AvailableCents: 100, ReservedCents: 500},
		"u2": {ID: "u2", AvailableCents: 50, ReservedCents: 300},
	}

	report := evaluateInvariants(byUser, users)

	if !report.OK {
		t.Fatalf("report.OK = false, want true: mismatch=%v negatives=%v", report.Mismatch, report.Negatives)
	}
	if report.SumActiveBidsCents != 800 {
		t.Errorf("SumActiveBidsCents = %d, want 800", report.SumActiveBidsCents)
	}
	if report.SumUserReservedCents != 800 {
		t.Errorf("SumUserReservedCents = %d, want 800", report.SumUserReservedCents)
	}
}

func TestEvaluateInvariantsDetectsMismatchAndNegatives(t *testing.T) {
	byUser := map[string]int64{"u1": 500, "u2": 300}
	users := map[string]*model.User{
		"u1": {ID: "u1", AvailableCents: 100, ReservedCents: 400}, // mismatch: reserved != sum of bids
		"u2": {ID: "u2", AvailableCents: -10, ReservedCents: 300}, // negative available
	}

	report := evaluateInvariants(byUser, users)

	if report.OK {
		t.Fatal("report.OK = true, want false")
	}

	sort.Strings(report.Mismatch)
	if len(report.Mismatch) != 1 || report.Mismatch[0] != "u1" {
		t.Errorf("Mismatch = %v, want [u1]", report.Mismatch)
	}
	if len(report.Negatives) != 1 || report.Negatives[0] != "u2" {
		t.Errorf("Negatives = %v, want [u2]", report.Negatives)
	}
}
