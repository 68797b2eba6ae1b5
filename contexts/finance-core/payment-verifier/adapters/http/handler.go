package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"encore/contexts/finance-core/payment-verifier/application"
	"encore/contexts/finance-core/payment-verifier/domain/entities"
	httptransport "encore/contexts/finance-core/payment-verifier/transport/http"
	identityentities "encore/contexts/identity-access/identity-gate/domain/entities"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) InitiatePaymentHandler(
	ctx context.Context,
	actor identityentities.Principal,
	req httptransport.InitiatePaymentRequest,
) (httptransport.PaymentResponse, error) {
	transaction, err := h.Service.Initiate(ctx, application.InitiateInput{
		ArtistID:  actor.UserID,
		ContestID: req.ContestID,
		TxRef:     req.TxRef,
	})
	if err != nil {
		return httptransport.PaymentResponse{}, err
	}
	return httptransport.PaymentResponse{
		Status: "success",
		Data:   toDTO(transaction),
	}, nil
}

func (h Handler) VerifyPaymentHandler(
	ctx context.Context,
	req httptransport.VerifyPaymentRequest,
) (httptransport.PaymentResponse, error) {
	transaction, replayed, err := h.Service.Confirm(ctx, req.TxRef)
	if err != nil {
		return httptransport.PaymentResponse{}, err
	}
	return httptransport.PaymentResponse{
		Status:   "success",
		Replayed: replayed,
		Data:     toDTO(transaction),
	}, nil
}

func (h Handler) ProviderWebhookHandler(
	ctx context.Context,
	signature string,
	req httptransport.ProviderWebhookRequest,
) (httptransport.PaymentResponse, error) {
	transaction, replayed, err := h.Service.HandleProviderCallback(ctx, signature, application.WebhookEvent{
		TxRef:  req.Data.TxRef,
		Status: req.Data.Status,
	})
	if err != nil {
		return httptransport.PaymentResponse{}, err
	}
	return httptransport.PaymentResponse{
		Status:   "success",
		Replayed: replayed,
		Data:     toDTO(transaction),
	}, nil
}

func (h Handler) PaymentStatusHandler(
	ctx context.Context,
	txRef string,
) (httptransport.PaymentResponse, error) {
	transaction, err := h.Service.Status(ctx, txRef)
	if err != nil {
		return httptransport.PaymentResponse{}, err
	}
	return httptransport.PaymentResponse{
		Status: "success",
		Data:   toDTO(transaction),
	}, nil
}

func toDTO(transaction entities.PaymentTransaction) httptransport.PaymentTransactionDTO {
	dto := httptransport.PaymentTransactionDTO{
		TransactionID: transaction.TransactionID,
		TxRef:         transaction.TxRef,
		ArtistID:      transaction.ArtistID,
		ContestID:     transaction.ContestID,
		Amount:        transaction.Amount,
		Currency:      transaction.Currency,
		Status:        transaction.Status,
		ProviderRef:   transaction.ProviderRef,
		FailureReason: transaction.FailureReason,
		InitiatedAt:   transaction.InitiatedAt.UTC().Format(time.RFC3339),
	}
	if transaction.CompletedAt != nil {
		dto.CompletedAt = transaction.CompletedAt.UTC().Format(time.RFC3339)
	}
	return dto
}
