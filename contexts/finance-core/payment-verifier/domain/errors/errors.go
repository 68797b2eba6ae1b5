package errors

import "errors"

var (
	ErrInvalidPaymentInput         = errors.New("payment input is invalid")
	ErrAlreadyRegistered           = errors.New("artist already has a completed registration payment for this contest")
	ErrTransactionRefInUse         = errors.New("transaction reference already in use")
	ErrTransactionNotFound         = errors.New("payment transaction not found")
	ErrProviderVerificationFailed  = errors.New("provider could not verify the transaction")
	ErrAmountMismatch              = errors.New("verified amount does not cover the registration fee")
	ErrWebhookSignatureInvalid     = errors.New("webhook signature is invalid")
	ErrRegistrationWindowClosed    = errors.New("registration window is closed for this contest")
	ErrTransactionAlreadyFinalized = errors.New("payment transaction already finalized")
)
