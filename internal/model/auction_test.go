package model

import "testing"

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from AuctionStatus
		to   AuctionStatus
		want bool
	}{
		{"draft to running is allowed", AuctionStatusDraft, AuctionStatusRunning, true},
		{"running to ended is allowed", AuctionStatusRunning, AuctionStatusEnded, true},
		{"draft to ended is not allowed", AuctionStatusDraft, AuctionStatusEnded, false},
		{"running to draft is not allowed", AuctionStatusRunning, AuctionStatusDraft, false},
		{"ended to anything is not allowed", AuctionStatusEnded, AuctionStatusRunning, false},
		{"self-loop is not a transition", AuctionStatusRunning, AuctionStatusRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanTransitionTo(tt.from, tt.to)
			if got != tt.want {
				t.Errorf("CanTransitionTo(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
