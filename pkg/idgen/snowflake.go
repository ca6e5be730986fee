// Package idgen generates opaque, roughly time-ordered string identifiers
// for domain entities and truly random unique tokens for fencing/refs.
package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Snowflake is a 64-bit id: 41-bit millisecond timestamp, 10-bit worker id,
// 12-bit per-millisecond sequence.
const (
	epoch          = int64(1704067200000) // 2024-01-01T00:00:00Z
	workerIDBits   = 10
	sequenceBits   = 12
	maxWorkerID    = -1 ^ (-1 << workerIDBits)
	maxSequence    = -1 ^ (-1 << sequenceBits)
	workerIDShift  = sequenceBits
	timestampShift = sequenceBits + workerIDBits
)

type Snowflake struct {
	mu        sync.Mutex
	timestamp int64
	workerID  int64
	sequence  int64
}

var (
	defaultGenerator *Snowflake
	once             sync.Once
)

// Init sets the process-wide worker id. Safe to call once; subsequent
// calls are no-ops.
func Init(workerID int64) {
	once.Do(func() {
		if workerID < 0 || workerID > maxWorkerID {
			panic(fmt.Sprintf("workerID must be in 0-%d", maxWorkerID))
		}
		defaultGenerator = &Snowflake{workerID: workerID}
	})
}

func NextID() int64 {
	if defaultGenerator == nil {
		Init(1)
	}
	return defaultGenerator.Generate()
}

func (s *Snowflake) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UnixMilli()

	if now == s.timestamp {
		s.sequence = (s.sequence + 1) & maxSequence
		if s.sequence == 0 {
			for now <= s.timestamp {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		s.sequence = 0
	}

	s.timestamp = now

	return ((now - epoch) << timestampShift) |
		(s.workerID << workerIDShift) |
		s.sequence
}

// GenerateUserID returns an opaque user id, e.g. "USR2026080614305212345678".
func GenerateUserID() string {
	return prefixedID("USR")
}

// GenerateAuctionID returns an opaque auction id.
func GenerateAuctionID() string {
	return prefixedID("AUC")
}

func prefixedID(prefix string) string {
	id := NextID()
	timestamp := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%08d", prefix, timestamp, id%100000000)
}

// NewToken returns a fresh random unique token, used for ledger refId
// suffixes and settlement-lease fencing tokens (spec.md's "ulid()").
func NewToken() string {
	return uuid.New().String()
}
