package application

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"encore/contexts/finance-core/payment-verifier/domain/entities"
	domainerrors "encore/contexts/finance-core/payment-verifier/domain/errors"
	"encore/contexts/finance-core/payment-verifier/ports"
)

const providerStatusSuccessful = "successful"

type Service struct {
	Repo          ports.Repository
	Provider      ports.ProviderClient
	Gate          ports.RegistrationGate
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	FeeAmount     float64
	FeeCurrency   string
	WebhookHash   string
	VerifyTimeout time.Duration
	Logger        *slog.Logger
}

type InitiateInput struct {
	ArtistID  string
	ContestID string
	TxRef     string
}

type WebhookEvent struct {
	TxRef  string
	Status string
}

func (s Service) Initiate(ctx context.Context, input InitiateInput) (entities.PaymentTransaction, error) {
	artistID := strings.TrimSpace(input.ArtistID)
	contestID := strings.TrimSpace(input.ContestID)
	if artistID == "" || contestID == "" {
		return entities.PaymentTransaction{}, domainerrors.ErrInvalidPaymentInput
	}
	if s.Gate != nil {
		if err := s.Gate.AllowArtistRegistration(ctx, contestID); err != nil {
			return entities.PaymentTransaction{}, err
		}
	}

	paid, err := s.Repo.HasCompletedPayment(ctx, artistID, contestID)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if paid {
		return entities.PaymentTransaction{}, domainerrors.ErrAlreadyRegistered
	}

	txRef := strings.TrimSpace(input.TxRef)
	if txRef != "" {
		existing, found, err := s.Repo.GetTransactionByRef(ctx, txRef)
		if err != nil {
			return entities.PaymentTransaction{}, err
		}
		if found {
			// Re-initiating one's own open transaction is a retry, not a
			// conflict. Anyone else's reference stays off limits.
			if existing.ArtistID == artistID && existing.ContestID == contestID && !existing.IsTerminal() {
				return existing, nil
			}
			return entities.PaymentTransaction{}, domainerrors.ErrTransactionRefInUse
		}
	}

	transactionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if txRef == "" {
		txRef = fmt.Sprintf("encore-%s", transactionID)
	}

	transaction := entities.PaymentTransaction{
		TransactionID: strings.TrimSpace(transactionID),
		TxRef:         txRef,
		ArtistID:      artistID,
		ContestID:     contestID,
		Amount:        s.FeeAmount,
		Currency:      s.FeeCurrency,
		Status:        entities.StatusPending,
		InitiatedAt:   s.now(),
	}
	if err := s.Repo.CreateTransaction(ctx, transaction); err != nil {
		return entities.PaymentTransaction{}, err
	}

	resolveLogger(s.Logger).Info("registration payment initiated",
		"event", "payment_initiated",
		"module", "finance-core/payment-verifier",
		"layer", "application",
		"tx_ref", transaction.TxRef,
		"artist_id", transaction.ArtistID,
		"contest_id", transaction.ContestID,
		"amount", transaction.Amount,
	)
	return transaction, nil
}

// Confirm re-verifies a transaction against the provider and finalizes it.
// The client-reported outcome is never trusted; the provider answer decides.
// Confirming an already-finalized transaction replays the stored result.
func (s Service) Confirm(ctx context.Context, txRef string) (entities.PaymentTransaction, bool, error) {
	txRef = strings.TrimSpace(txRef)
	if txRef == "" {
		return entities.PaymentTransaction{}, false, domainerrors.ErrInvalidPaymentInput
	}

	transaction, found, err := s.Repo.GetTransactionByRef(ctx, txRef)
	if err != nil {
		return entities.PaymentTransaction{}, false, err
	}
	if !found {
		return entities.PaymentTransaction{}, false, domainerrors.ErrTransactionNotFound
	}
	if transaction.IsTerminal() {
		return transaction, true, nil
	}

	verifyCtx := ctx
	if s.VerifyTimeout > 0 {
		var cancel context.CancelFunc
		verifyCtx, cancel = context.WithTimeout(ctx, s.VerifyTimeout)
		defer cancel()
	}
	verification, err := s.Provider.VerifyTransaction(verifyCtx, txRef)
	if err != nil {
		return entities.PaymentTransaction{}, false, fmt.Errorf("%w: %v", domainerrors.ErrProviderVerificationFailed, err)
	}

	update := ports.FinalizeUpdate{
		Status:      entities.StatusCompleted,
		ProviderRef: strings.TrimSpace(verification.ProviderRef),
		CompletedAt: s.now(),
	}
	switch {
	case !strings.EqualFold(strings.TrimSpace(verification.Status), providerStatusSuccessful):
		update.Status = entities.StatusFailed
		update.FailureReason = fmt.Sprintf("provider reported status %q", strings.TrimSpace(verification.Status))
	case verification.Amount < transaction.Amount:
		update.Status = entities.StatusFailed
		update.FailureReason = domainerrors.ErrAmountMismatch.Error()
	case !strings.EqualFold(strings.TrimSpace(verification.Currency), transaction.Currency):
		update.Status = entities.StatusFailed
		update.FailureReason = fmt.Sprintf("provider settled in %q, expected %q", verification.Currency, transaction.Currency)
	}

	finalized, applied, err := s.Repo.FinalizeTransaction(ctx, txRef, update)
	if err != nil {
		return entities.PaymentTransaction{}, false, err
	}
	if !applied {
		// A concurrent confirm won the race; its terminal result stands.
		return finalized, true, nil
	}

	resolveLogger(s.Logger).Info("registration payment finalized",
		"event", "payment_finalized",
		"module", "finance-core/payment-verifier",
		"layer", "application",
		"tx_ref", finalized.TxRef,
		"status", finalized.Status,
		"failure_reason", finalized.FailureReason,
	)
	return finalized, false, nil
}

// HandleProviderCallback processes the provider webhook. The signature header
// must match the configured hash before anything in the payload is read.
func (s Service) HandleProviderCallback(ctx context.Context, signature string, event WebhookEvent) (entities.PaymentTransaction, bool, error) {
	if strings.TrimSpace(s.WebhookHash) == "" ||
		subtle.ConstantTimeCompare([]byte(strings.TrimSpace(signature)), []byte(s.WebhookHash)) != 1 {
		return entities.PaymentTransaction{}, false, domainerrors.ErrWebhookSignatureInvalid
	}
	return s.Confirm(ctx, event.TxRef)
}

func (s Service) Status(ctx context.Context, txRef string) (entities.PaymentTransaction, error) {
	txRef = strings.TrimSpace(txRef)
	if txRef == "" {
		return entities.PaymentTransaction{}, domainerrors.ErrInvalidPaymentInput
	}
	transaction, found, err := s.Repo.GetTransactionByRef(ctx, txRef)
	if err != nil {
		return entities.PaymentTransaction{}, err
	}
	if !found {
		return entities.PaymentTransaction{}, domainerrors.ErrTransactionNotFound
	}
	return transaction, nil
}

// ArtistHasPaid reports whether a completed registration payment exists for
// the artist in the given contest. Other modules consume this through a port.
func (s Service) ArtistHasPaid(ctx context.Context, artistID string, contestID string) (bool, error) {
	artistID = strings.TrimSpace(artistID)
	contestID = strings.TrimSpace(contestID)
	if artistID == "" || contestID == "" {
		return false, domainerrors.ErrInvalidPaymentInput
	}
	return s.Repo.HasCompletedPayment(ctx, artistID, contestID)
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
