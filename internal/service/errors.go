package service

import "errors"

// Error classes. The HTTP layer maps each class to one status code.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUnprocessable    = errors.New("unprocessable")
	ErrPaymentRequired  = errors.New("payment required")
	ErrInvalidInput     = errors.New("invalid input")
)

var (
	ErrMissingProfileID     = newError(ErrNotAuthenticated, "Requires profile_id in request headers")
	ErrUnknownProfile       = newError(ErrUnauthorized, "Unauthorized profile")
	ErrNotContractParty     = newError(ErrUnauthorized, "Unauthorized")
	ErrContractNotFound     = newError(ErrNotFound, "Contract not found")
	ErrJobNotFound          = newError(ErrNotFound, "Job not found")
	ErrJobNotPayable        = newError(ErrUnprocessable, "Payment cannot be made for this job")
	ErrJobAlreadyPaid       = newError(ErrConflict, "Payment already exists for this job")
	ErrJobNotPaid           = newError(ErrUnprocessable, "Job has not been paid yet")
	ErrNotJobClient         = newError(ErrUnauthorized, "Unauthorized client attempting to make payment")
	ErrSelfPayment          = newError(ErrUnauthorized, "Invalid operation, contractor cannot pay self")
	ErrInsufficientFunds    = newError(ErrPaymentRequired, "Insufficient funds")
	ErrUserNotFound         = newError(ErrNotFound, "User not found")
	ErrDepositLimitExceeded = newError(ErrUnprocessable, "Deposit exceeds the allowed share of unpaid jobs")
	ErrNoPaidJobs           = newError(ErrNotFound, "No paid jobs in the given period")
)

// reasonError carries a client facing message while unwrapping to its class.
type reasonError struct {
	class error
	msg   string
}

func newError(class error, msg string) error {
	return &reasonError{class: class, msg: msg}
}

func (e *reasonError) Error() string { return e.msg }

func (e *reasonError) Unwrap() error { return e.class }

func invalidInput(msg string) error {
	return newError(ErrInvalidInput, msg)
}
