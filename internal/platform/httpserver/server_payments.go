package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	paymenterrors "encore/contexts/finance-core/payment-verifier/domain/errors"
	paymenthttp "encore/contexts/finance-core/payment-verifier/transport/http"
)

func (s *Server) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req paymenthttp.InitiatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePaymentError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.payments.Handler.InitiatePaymentHandler(r.Context(), actor, req)
	if err != nil {
		writePaymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	var req paymenthttp.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePaymentError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.payments.Handler.VerifyPaymentHandler(r.Context(), req)
	if err != nil {
		writePaymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleProviderWebhook is authenticated by the provider signature header,
// not a bearer token.
func (s *Server) handleProviderWebhook(w http.ResponseWriter, r *http.Request) {
	var req paymenthttp.ProviderWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writePaymentError(w, http.StatusBadRequest, "request body must be valid JSON")
		return
	}

	resp, err := s.payments.Handler.ProviderWebhookHandler(r.Context(), r.Header.Get("verif-hash"), req)
	if err != nil {
		writePaymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}

	resp, err := s.payments.Handler.PaymentStatusHandler(r.Context(), r.PathValue("tx_ref"))
	if err != nil {
		writePaymentDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writePaymentDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, paymenterrors.ErrInvalidPaymentInput):
		writePaymentError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, paymenterrors.ErrAlreadyRegistered):
		writePaymentError(w, http.StatusConflict, err.Error())
	case errors.Is(err, paymenterrors.ErrTransactionRefInUse):
		writePaymentError(w, http.StatusConflict, err.Error())
	case errors.Is(err, paymenterrors.ErrTransactionNotFound):
		writePaymentError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, paymenterrors.ErrProviderVerificationFailed):
		writePaymentError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, paymenterrors.ErrAmountMismatch):
		writePaymentError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, paymenterrors.ErrWebhookSignatureInvalid):
		writePaymentError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, paymenterrors.ErrRegistrationWindowClosed):
		writePaymentError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, paymenterrors.ErrTransactionAlreadyFinalized):
		writePaymentError(w, http.StatusConflict, err.Error())
	default:
		writePaymentError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writePaymentError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, paymenthttp.ErrorResponse{
		Status:  "error",
		Message: message,
	})
}
