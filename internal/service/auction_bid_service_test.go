package service

import (
	"testing"
	"time"

	"sealedauction/internal/model"
)

func TestInAntiSnipeWindow(t *testing.T) {
	base := time.Date(2026, 8, 6, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		auction *model.Auction
		now     time.Time
		want    bool
	}{
		{
			name: "outside the anti-snipe window does not trigger",
			auction: &model.Auction{
				AntiSnipeWindowSec:            30,
				AntiSnipeExtensionSec:         15,
				AntiSnipeMaxTotalExtensionSec: 120,
				CurrentRoundEndsAt:            timePtr(base),
			},
			now:  base.Add(-time.Minute),
			want: false,
		},
		{
			name: "inside the window triggers",
			auction: &model.Auction{
				AntiSnipeWindowSec:            30,
				AntiSnipeExtensionSec:         15,
				AntiSnipeMaxTotalExtensionSec: 120,
				CurrentRoundEndsAt:            timePtr(base),
			},
			now:  base.Add(-10 * time.Second),
			want: true,
		},
		{
			name: "triggers regardless of how much budget remains committed — ExtendRound clamps that",
			auction: &model.Auction{
				AntiSnipeWindowSec:            30,
				AntiSnipeExtensionSec:         15,
				AntiSnipeMaxTotalExtensionSec: 120,
				CurrentRoundExtendedBySec:     120,
				CurrentRoundEndsAt:            timePtr(base),
			},
			now:  base.Add(-10 * time.Second),
			want: true,
		},
		{
			name: "anti-snipe disabled when the window is zero",
			auction: &model.Auction{
				AntiSnipeWindowSec:            0,
				AntiSnipeExtensionSec:         15,
				AntiSnipeMaxTotalExtensionSec: 120,
				CurrentRoundEndsAt:            timePtr(base),
			},
			now:  base.Add(-time.Second),
			want: false,
		},
		{
			name: "anti-snipe disabled when the per-bid extension is zero",
			auction: &model.Auction{
				AntiSnipeWindowSec:            30,
				AntiSnipeExtensionSec:         0,
				AntiSnipeMaxTotalExtensionSec: 120,
				CurrentRoundEndsAt:            timePtr(base),
			},
			now:  base.Add(-time.Second),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inAntiSnipeWindow(tt.auction, tt.now)
			if got != tt.want {
				t.Errorf("inAntiSnipeWindow() = %v, want %v", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
