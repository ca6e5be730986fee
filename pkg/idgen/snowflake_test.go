package idgen

import (
	"strings"
	"testing"
)

func TestSnowflakeGenerateIsMonotonic(t *testing.T) {
	s := &Snowflake{workerID: 7}

	prev := s.Generate()
	for i := 0; i < 1000; i++ {
		next := s.Generate()
		if next <= prev {
			t.Fatalf("Generate() produced non-increasing ids: prev=%d next=%d", prev, next)
		}
		prev = next
	}
}

func TestGenerateUserAndAuctionIDPrefixes(t *testing.T) {
	Init(1)

	userID := GenerateUserID()
	if !strings.HasPrefix(userID, "USR") {
		t.Errorf("GenerateUserID() = %q, want USR prefix", userID)
	}

	auctionID := GenerateAuctionID()
	if !strings.HasPrefix(auctionID, "AUC") {
		t.Errorf("GenerateAuctionID() = %q, want AUC prefix", auctionID)
	}

	if userID == auctionID {
		t.Error("GenerateUserID() and GenerateAuctionID() collided")
	}
}

func TestNewTokenIsUniqueAndNonEmpty(t *testing.T) {
	a := NewToken()
	b := NewToken()
	if a == "" || b == "" {
		t.Fatal("NewToken() returned an empty string")
	}
	if a == b {
		t.Error("NewToken() returned the same token twice in a row")
	}
}
