package paymentverifier

import (
	"log/slog"
	"time"

	httpadapter "encore/contexts/finance-core/payment-verifier/adapters/http"
	"encore/contexts/finance-core/payment-verifier/adapters/memory"
	"encore/contexts/finance-core/payment-verifier/application"
	"encore/contexts/finance-core/payment-verifier/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Service  application.Service
	Store    *memory.Store
	Provider *memory.FakeProvider
}

type Dependencies struct {
	Repository    ports.Repository
	Provider      ports.ProviderClient
	Gate          ports.RegistrationGate
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	FeeAmount     float64
	FeeCurrency   string
	WebhookHash   string
	VerifyTimeout time.Duration
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:          deps.Repository,
		Provider:      deps.Provider,
		Gate:          deps.Gate,
		Clock:         deps.Clock,
		IDGen:         deps.IDGenerator,
		FeeAmount:     deps.FeeAmount,
		FeeCurrency:   deps.FeeCurrency,
		WebhookHash:   deps.WebhookHash,
		VerifyTimeout: deps.VerifyTimeout,
		Logger:        deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

func NewInMemoryModule(gate ports.RegistrationGate, logger *slog.Logger) Module {
	store := memory.NewStore()
	provider := memory.NewFakeProvider()
	module := NewModule(Dependencies{
		Repository:  store,
		Provider:    provider,
		Gate:        gate,
		Clock:       store,
		IDGenerator: store,
		FeeAmount:   5000,
		FeeCurrency: "NGN",
		WebhookHash: "local-webhook-hash",
		Logger:      logger,
	})
	module.Store = store
	module.Provider = provider
	return module
}
