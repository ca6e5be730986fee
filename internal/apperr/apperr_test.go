package apperr

import "testing"

func TestErrorMessage(t *testing.T) {
	err := New(CodeBidBelowMin, "bid of 50 is below the minimum of 100")
	want := "BID_BELOW_MIN: bid of 50 is below the minimum of 100"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestOfUsesCodeAsMessage(t *testing.T) {
	err := Of(CodeAuctionEnded)
	if err.Code != CodeAuctionEnded {
		t.Errorf("Code = %q, want %q", err.Code, CodeAuctionEnded)
	}
	if err.Error() != string(CodeAuctionEnded) {
		t.Errorf("Error() = %q, want %q", err.Error(), CodeAuctionEnded)
	}
}

func TestAs(t *testing.T) {
	var err error = Of(CodeUserNotFound)

	ae, ok := As(err)
	if !ok {
		t.Fatal("As() = false, want true for an *Error")
	}
	if ae.Code != CodeUserNotFound {
		t.Errorf("Code = %q, want %q", ae.Code, CodeUserNotFound)
	}

	_, ok = As(ErrPlain)
	if ok {
		t.Error("As() = true, want false for a plain error")
	}
}

var ErrPlain = plainError("not an apperr.Error")

type plainError string

func (e plainError) Error() string { return string(e) }
