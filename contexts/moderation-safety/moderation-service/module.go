package moderationservice

import (
	"log/slog"
	"time"

	httpadapter "encore/contexts/moderation-safety/moderation-service/adapters/http"
	"encore/contexts/moderation-safety/moderation-service/adapters/memory"
	"encore/contexts/moderation-safety/moderation-service/application"
	"encore/contexts/moderation-safety/moderation-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository     ports.Repository
	Idempotency    ports.IdempotencyStore
	TrackClient    ports.TrackDecisionClient
	Queue          ports.TrackQueueClient
	Gate           ports.DecisionGate
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:           deps.Repository,
		Idempotency:    deps.Idempotency,
		TrackClient:    deps.TrackClient,
		Queue:          deps.Queue,
		Gate:           deps.Gate,
		Clock:          deps.Clock,
		IDGen:          deps.IDGenerator,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(
	trackClient ports.TrackDecisionClient,
	queue ports.TrackQueueClient,
	gate ports.DecisionGate,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository:     store,
		Idempotency:    store,
		TrackClient:    trackClient,
		Queue:          queue,
		Gate:           gate,
		Clock:          store,
		IDGenerator:    store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
