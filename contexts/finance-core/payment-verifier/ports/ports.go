package ports

import (
	"context"
	"time"

	"encore/contexts/finance-core/payment-verifier/domain/entities"
)

type Repository interface {
	CreateTransaction(ctx context.Context, transaction entities.PaymentTransaction) error
	GetTransactionByRef(ctx context.Context, txRef string) (entities.PaymentTransaction, bool, error)
	HasCompletedPayment(ctx context.Context, artistID string, contestID string) (bool, error)
	// FinalizeTransaction moves a pending transaction to a terminal status.
	// It returns finalized=false when the row was no longer pending, in
	// which case the stored transaction is returned unchanged.
	FinalizeTransaction(ctx context.Context, txRef string, update FinalizeUpdate) (entities.PaymentTransaction, bool, error)
}

type FinalizeUpdate struct {
	Status        string
	ProviderRef   string
	FailureReason string
	CompletedAt   time.Time
}

// ProviderVerification is the provider's authoritative view of a charge.
// Confirmation never trusts client-reported outcomes; it is built from this.
type ProviderVerification struct {
	TxRef       string
	ProviderRef string
	Status      string
	Amount      float64
	Currency    string
}

type ProviderClient interface {
	VerifyTransaction(ctx context.Context, txRef string) (ProviderVerification, error)
}

// RegistrationGate answers whether a contest currently accepts artist
// registration. Wired to the contest module outside this package.
type RegistrationGate interface {
	AllowArtistRegistration(ctx context.Context, contestID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
