package httpx

import (
	"errors"
	"net/http"

	"github.com/leanledger/leanledger/internal/ledger/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
// Validation failures reject the whole request; precondition
// violations (wrong ledger) read as not found to avoid leaking which
// entities exist elsewhere.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrLedgerNotFound),
		errors.Is(err, shared.ErrRecordNotFound),
		errors.Is(err, shared.ErrAccountNotFound),
		errors.Is(err, shared.ErrWrongLedger):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrZeroAmount),
		errors.Is(err, shared.ErrNonPositiveAmount),
		errors.Is(err, shared.ErrUnknownAccountType),
		errors.Is(err, shared.ErrUnknownVariationType),
		errors.Is(err, shared.ErrTypeMismatch),
		errors.Is(err, shared.ErrParentNotFound),
		errors.Is(err, shared.ErrParentCycle):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
