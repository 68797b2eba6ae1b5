package unit

import (
	"context"
	"errors"
	"strings"
	"testing"

	paymentverifier "encore/contexts/finance-core/payment-verifier"
	"encore/contexts/finance-core/payment-verifier/application"
	"encore/contexts/finance-core/payment-verifier/domain/entities"
	domainerrors "encore/contexts/finance-core/payment-verifier/domain/errors"
	"encore/contexts/finance-core/payment-verifier/ports"
)

type stubRegistrationGate struct {
	err error
}

func (s stubRegistrationGate) AllowArtistRegistration(context.Context, string) error {
	return s.err
}

func initiatePayment(t *testing.T, module paymentverifier.Module, artistID string) entities.PaymentTransaction {
	t.Helper()
	transaction, err := module.Service.Initiate(context.Background(), application.InitiateInput{
		ArtistID:  artistID,
		ContestID: "contest-1",
	})
	if err != nil {
		t.Fatalf("initiate for %s failed: %v", artistID, err)
	}
	return transaction
}

func TestInitiateAssignsReferenceAndPendingStatus(t *testing.T) {
	module := paymentverifier.NewInMemoryModule(stubRegistrationGate{}, nil)

	transaction := initiatePayment(t, module, "artist-1")
	if transaction.Status != entities.StatusPending {
		t.Fatalf("fresh transaction must be pending, got %s", transaction.Status)
	}
	if !strings.HasPrefix(transaction.TxRef, "encore-") {
		t.Fatalf("expected generated tx_ref, got %q", transaction.TxRef)
	}
	if transaction.Amount != 5000 || transaction.Currency != "NGN" {
		t.Fatalf("transaction must carry the configured fee, got %.0f %s", transaction.Amount, transaction.Currency)
	}
}

func TestInitiateRejectsClosedRegistrationWindow(t *testing.T) {
	module := paymentverifier.NewInMemoryModule(
		stubRegistrationGate{err: domainerrors.ErrRegistrationWindowClosed}, nil)

	_, err := module.Service.Initiate(context.Background(), application.InitiateInput{
		ArtistID:  "artist-1",
		ContestID: "contest-1",
	})
	if !errors.Is(err, domainerrors.ErrRegistrationWindowClosed) {
		t.Fatalf("expected window-closed, got %v", err)
	}
}

func TestInitiateReplaysOwnOpenReference(t *testing.T) {
	module := paymentverifier.NewInMemoryModule(stubRegistrationGate{}, nil)

	first, err := module.Service.Initiate(context.Background(), application.InitiateInput{
		ArtistID:  "artist-1",
		ContestID: "contest-1",
		TxRef:     "flw-12345",
	})
	if err != nil {
		t.Fatalf("initiate failed: %v", err)
	}

	replay, err := module.Service.Initiate(context.Background(), application.InitiateInput{
		ArtistID:  "artist-1",
		ContestID: "contest-1",
		TxRef:     "flw-12345",
	})
	if err != nil {
		t.Fatalf("re-initiate of own open reference failed: %v", err)
	}
	if replay.TransactionID != first.TransactionID {
		t.Fatalf("replay must return the existing transaction, got %+v", replay)
	}

	_, err = module.Service.Initiate(context.Background(), application.InitiateInput{
		ArtistID:  "artist-2",
		ContestID: "contest-1",
		TxRef:     "flw-12345",
	})
	if !errors.Is(err, domainerrors.ErrTransactionRefInUse) {
		t.Fatalf("expected ref-in-use for a foreign reference, got %v", err)
	}
}

func TestConfirmTrustsProviderNotCaller(t *testing.T) {
	module := paymentverifier.NewInMemoryModule(stubRegistrationGate{}, nil)
	transaction := initiatePayment(t, module, "artist-1")

	// No verification seeded: the provider cannot vouch for the tx_ref.
	if _, _, err := module.Service.Confirm(context.Background(), transaction.TxRef); !errors.Is(err, domainerrors.ErrProviderVerificationFailed) {
		t.Fatalf("expected provider verification failure, got %v", err)
	}

	module.Provider.SetVerification(ports.ProviderVerification{
		TxRef:       transaction.TxRef,
		ProviderRef: "prov-900",
		Status:      "successful",
		Amount:      5000,
		Currency:    "NGN",
	})
	confirmed, replayed, err := module.Service.Confirm(context.Background(), transaction.TxRef)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if replayed {
		t.Fatal("first confirm must not be a replay")
	}
	if confirmed.Status != entities.StatusCompleted || confirmed.ProviderRef != "prov-900" {
		t.Fatalf("expected completed transaction, got %+v", confirmed)
	}

	paid, err := module.Service.ArtistHasPaid(context.Background(), "artist-1", "contest-1")
	if err != nil {
		t.Fatalf("has-paid check failed: %v", err)
	}
	if !paid {
		t.Fatal("completed payment must mark the artist as registered")
	}
}

func TestConfirmFailsShortPayment(t *testing.T) {
	module := paymentverifier.NewInMemoryModule(stubRegistrationGate{}, nil)
	transaction := initiatePayment(t, module, "artist-1")

	module.Provider.SetVerification(ports.ProviderVerification{
		TxRef:    transaction.TxRef,
		Status:   "successful",
		Amount:   4999,
		Currency: "NGN",
	})
	confirmed, _, err := module.Service.Confirm(context.Background(), transaction.TxRef)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if confirmed.Status != entities.StatusFailed {
		t.Fatalf("short payment must fail, got %s", confirmed.Status)
	}
	if confirmed.FailureReason == "" {
		t.Fatal("failed transaction must record a reason")
	}

	paid, err := module.Service.ArtistHasPaid(context.Background(), "artist-1", "contest-1")
	if err != nil {
		t.Fatalf("has-paid check failed: %v", err)
	}
	if paid {
		t.Fatal("failed payment must not register the artist")
	}
}

func TestConfirmReplaysTerminalTransactions(t *testing.T) {
	module := paymentverifier.NewInMemoryModule(stubRegistrationGate{}, nil)
	transaction := initiatePayment(t, module, "artist-1")

	module.Provider.SetVerification(ports.ProviderVerification{
		TxRef:    transaction.TxRef,
		Status:   "successful",
		Amount:   5000,
		Currency: "NGN",
	})
	first, _, err := module.Service.Confirm(context.Background(), transaction.TxRef)
	if err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}

	// Flip the fake to a failing answer; the stored terminal result must win.
	module.Provider.SetVerification(ports.ProviderVerification{
		TxRef:  transaction.TxRef,
		Status: "failed",
	})
	second, replayed, err := module.Service.Confirm(context.Background(), transaction.TxRef)
	if err != nil {
		t.Fatalf("replayed confirm failed: %v", err)
	}
	if !replayed {
		t.Fatal("confirm of a finalized transaction must report a replay")
	}
	if second.Status != first.Status {
		t.Fatalf("replay must return the stored result, got %+v want %+v", second, first)
	}
	if second.CompletedAt == nil || first.CompletedAt == nil || !second.CompletedAt.Equal(*first.CompletedAt) {
		t.Fatalf("replay must keep the original completion time, got %v want %v", second.CompletedAt, first.CompletedAt)
	}
}

func TestSecondRegistrationPaymentRejected(t *testing.T) {
	module := paymentverifier.NewInMemoryModule(stubRegistrationGate{}, nil)
	transaction := initiatePayment(t, module, "artist-1")

	module.Provider.SetVerification(ports.ProviderVerification{
		TxRef:    transaction.TxRef,
		Status:   "successful",
		Amount:   5000,
		Currency: "NGN",
	})
	if _, _, err := module.Service.Confirm(context.Background(), transaction.TxRef); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	_, err := module.Service.Initiate(context.Background(), application.InitiateInput{
		ArtistID:  "artist-1",
		ContestID: "contest-1",
	})
	if !errors.Is(err, domainerrors.ErrAlreadyRegistered) {
		t.Fatalf("expected already-registered, got %v", err)
	}
}

func TestWebhookRequiresValidSignature(t *testing.T) {
	module := paymentverifier.NewInMemoryModule(stubRegistrationGate{}, nil)
	transaction := initiatePayment(t, module, "artist-1")

	module.Provider.SetVerification(ports.ProviderVerification{
		TxRef:    transaction.TxRef,
		Status:   "successful",
		Amount:   5000,
		Currency: "NGN",
	})

	event := application.WebhookEvent{TxRef: transaction.TxRef, Status: "successful"}
	if _, _, err := module.Service.HandleProviderCallback(context.Background(), "wrong-hash", event); !errors.Is(err, domainerrors.ErrWebhookSignatureInvalid) {
		t.Fatalf("expected signature rejection, got %v", err)
	}

	confirmed, _, err := module.Service.HandleProviderCallback(context.Background(), "local-webhook-hash", event)
	if err != nil {
		t.Fatalf("webhook confirm failed: %v", err)
	}
	if confirmed.Status != entities.StatusCompleted {
		t.Fatalf("webhook must finalize through provider verification, got %s", confirmed.Status)
	}
}

func TestStatusLookupByReference(t *testing.T) {
	module := paymentverifier.NewInMemoryModule(stubRegistrationGate{}, nil)
	transaction := initiatePayment(t, module, "artist-1")

	stored, err := module.Service.Status(context.Background(), transaction.TxRef)
	if err != nil {
		t.Fatalf("status lookup failed: %v", err)
	}
	if stored.TransactionID != transaction.TransactionID {
		t.Fatalf("status returned a different transaction: %+v", stored)
	}

	if _, err := module.Service.Status(context.Background(), "missing-ref"); !errors.Is(err, domainerrors.ErrTransactionNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
