package voteledger

import (
	"log/slog"

	httpadapter "encore/contexts/contest-operations/vote-ledger/adapters/http"
	"encore/contexts/contest-operations/vote-ledger/adapters/memory"
	"encore/contexts/contest-operations/vote-ledger/application/commands"
	"encore/contexts/contest-operations/vote-ledger/application/queries"
	"encore/contexts/contest-operations/vote-ledger/application/workers"
	"encore/contexts/contest-operations/vote-ledger/ports"
)

type Module struct {
	Handler     httpadapter.Handler
	Leaderboard queries.LeaderboardUseCase
	Relay       workers.OutboxRelay
	Reconciler  workers.TallyReconciler
	Store       *memory.Store
}

type Dependencies struct {
	Votes     ports.VoteRepository
	Tracks    ports.TrackCatalog
	Gate      ports.VotingGate
	Outbox    ports.OutboxWriter
	OutboxRdr ports.OutboxRepository
	Publisher ports.EventPublisher
	Cache     ports.TallyCache
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	leaderboard := queries.LeaderboardUseCase{
		Votes:  deps.Votes,
		Tracks: deps.Tracks,
	}
	module := Module{
		Handler: httpadapter.Handler{
			Cast: commands.CastVoteUseCase{
				Votes:  deps.Votes,
				Tracks: deps.Tracks,
				Gate:   deps.Gate,
				Outbox: deps.Outbox,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			Leaderboard: leaderboard,
			Logger:      deps.Logger,
		},
		Leaderboard: leaderboard,
	}
	if deps.Cache != nil {
		module.Reconciler = workers.TallyReconciler{
			Votes:  deps.Votes,
			Cache:  deps.Cache,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		}
	}
	if deps.OutboxRdr != nil && deps.Publisher != nil {
		module.Relay = workers.OutboxRelay{
			Outbox:    deps.OutboxRdr,
			Publisher: deps.Publisher,
			Clock:     deps.Clock,
			Logger:    deps.Logger,
		}
	}
	return module
}

func NewInMemoryModule(
	tracks ports.TrackCatalog,
	gate ports.VotingGate,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Votes:     store,
		Tracks:    tracks,
		Gate:      gate,
		Outbox:    store,
		OutboxRdr: store,
		Publisher: publisher,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
