package trackservice

import (
	"log/slog"

	httpadapter "encore/contexts/contest-operations/track-service/adapters/http"
	"encore/contexts/contest-operations/track-service/adapters/memory"
	"encore/contexts/contest-operations/track-service/application/commands"
	"encore/contexts/contest-operations/track-service/application/queries"
	"encore/contexts/contest-operations/track-service/application/workers"
	"encore/contexts/contest-operations/track-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Decide   commands.ApplyDecisionUseCase
	Tracks   queries.TrackUseCase
	Consumer workers.VoteTallyConsumer
	Store    *memory.Store
}

type Dependencies struct {
	Tracks     ports.TrackRepository
	Payments   ports.PaymentStatusClient
	Gate       ports.SubmissionGate
	Winners    ports.WinnerHistory
	Subscriber ports.EventSubscriber
	Dedup      ports.EventDedupStore
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	trackQueries := queries.TrackUseCase{Tracks: deps.Tracks}
	module := Module{
		Handler: httpadapter.Handler{
			Submit: commands.SubmitTrackUseCase{
				Tracks:   deps.Tracks,
				Payments: deps.Payments,
				Gate:     deps.Gate,
				Winners:  deps.Winners,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			Update: commands.UpdateTrackUseCase{
				Tracks: deps.Tracks,
				Gate:   deps.Gate,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			Tracks: trackQueries,
			Logger: deps.Logger,
		},
		Decide: commands.ApplyDecisionUseCase{
			Tracks: deps.Tracks,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
		Tracks: trackQueries,
	}
	if deps.Subscriber != nil {
		module.Consumer = workers.VoteTallyConsumer{
			Subscriber: deps.Subscriber,
			Tracks:     deps.Tracks,
			Dedup:      deps.Dedup,
			Clock:      deps.Clock,
			Logger:     deps.Logger,
		}
	}
	return module
}

func NewInMemoryModule(
	payments ports.PaymentStatusClient,
	gate ports.SubmissionGate,
	winners ports.WinnerHistory,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Tracks:   store,
		Payments: payments,
		Gate:     gate,
		Winners:  winners,
		Dedup:    store,
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
