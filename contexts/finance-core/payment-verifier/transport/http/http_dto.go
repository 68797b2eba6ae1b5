package httptransport

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type InitiatePaymentRequest struct {
	ContestID string `json:"contest_id"`
	TxRef     string `json:"tx_ref,omitempty"`
}

type VerifyPaymentRequest struct {
	TxRef string `json:"tx_ref"`
}

type ProviderWebhookRequest struct {
	Event string `json:"event"`
	Data  struct {
		TxRef  string `json:"tx_ref"`
		Status string `json:"status"`
	} `json:"data"`
}

type PaymentTransactionDTO struct {
	TransactionID string  `json:"transaction_id"`
	TxRef         string  `json:"tx_ref"`
	ArtistID      string  `json:"artist_id"`
	ContestID     string  `json:"contest_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	ProviderRef   string  `json:"provider_ref,omitempty"`
	FailureReason string  `json:"failure_reason,omitempty"`
	InitiatedAt   string  `json:"initiated_at"`
	CompletedAt   string  `json:"completed_at,omitempty"`
}

type PaymentResponse struct {
	Status   string                `json:"status"`
	Replayed bool                  `json:"replayed,omitempty"`
	Data     PaymentTransactionDTO `json:"data"`
}
