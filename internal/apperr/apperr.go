// Package apperr carries the stable error codes the core services return,
// generalizing the teacher's sentinel-error-per-repository style into one
// typed carrier the boundary layer can switch on uniformly.
package apperr

import "fmt"

// Code is a closed, stable identifier. Callers across process boundaries
// may depend on the exact string.
type Code string

const (
	CodeValidation        Code = "VALIDATION"
	CodeAmountMustBePositive Code = "AMOUNT_MUST_BE_POSITIVE"
	CodeBidBelowMin        Code = "BID_BELOW_MIN"
	CodeBidMustIncrease    Code = "BID_MUST_INCREASE"
	CodeTotalItemsMustBePositive Code = "TOTAL_ITEMS_MUST_BE_POSITIVE"
	CodeItemsPerRoundGTTotal Code = "ITEMS_PER_ROUND_GT_TOTAL"
	CodeRoundDurationTooSmall Code = "ROUND_DURATION_TOO_SMALL"

	CodeUserNotFound     Code = "USER_NOT_FOUND"
	CodeAuctionNotFound  Code = "AUCTION_NOT_FOUND"

	CodeUsernameTaken      Code = "USERNAME_TAKEN"
	CodeAuctionNotDraft    Code = "AUCTION_NOT_DRAFT"
	CodeAuctionNotRunning  Code = "AUCTION_NOT_RUNNING"
	CodeAuctionEnded       Code = "AUCTION_ENDED"
	CodeAuctionRoundEnded  Code = "AUCTION_ROUND_ENDED"
	CodeAuctionIsSettling  Code = "AUCTION_IS_SETTLING"
	CodeAuctionRoundNotSet Code = "AUCTION_ROUND_NOT_SET"

	CodeInsufficientAvailableBalance Code = "INSUFFICIENT_AVAILABLE_BALANCE"

	CodeInvariantReservedLTBid Code = "INVARIANT_RESERVED_LT_BID"
)

// Error is the typed error every core service operation returns on failure.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" || e.Message == string(e.Code) {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds an *Error with an explicit message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Of builds an *Error whose message is the code itself, for the common case
// where the code is self-describing.
func Of(code Code) *Error {
	return &Error{Code: code, Message: string(code)}
}

// As extracts an *Error from err, following the same shape as errors.As.
func As(err error) (*Error, bool) {
	ae, ok := err.(*Error)
	return ae, ok
}
