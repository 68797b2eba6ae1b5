package entities

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// PaymentTransaction records one registration charge attempt. TxRef is the
// provider-facing reference and is unique across all transactions; the
// provider is always re-queried with it before a transaction turns terminal.
type PaymentTransaction struct {
	TransactionID string
	TxRef         string
	ArtistID      string
	ContestID     string
	Amount        float64
	Currency      string
	Status        string
	ProviderRef   string
	FailureReason string
	InitiatedAt   time.Time
	CompletedAt   *time.Time
}

func (t PaymentTransaction) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusFailed
}
