package response

import (
	"net/http"
	"testing"

	"sealedauction/internal/apperr"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code apperr.Code
		want int
	}{
		{apperr.CodeUserNotFound, http.StatusNotFound},
		{apperr.CodeAuctionNotFound, http.StatusNotFound},
		{apperr.CodeInsufficientAvailableBalance, http.StatusConflict},
		{apperr.CodeBidBelowMin, http.StatusBadRequest},
		{apperr.CodeAuctionEnded, http.StatusBadRequest},
		{apperr.CodeValidation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			got := statusFor(tt.code)
			if got != tt.want {
				t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
