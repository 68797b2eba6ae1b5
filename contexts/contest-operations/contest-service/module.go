package contestservice

import (
	"log/slog"

	httpadapter "encore/contexts/contest-operations/contest-service/adapters/http"
	"encore/contexts/contest-operations/contest-service/adapters/memory"
	"encore/contexts/contest-operations/contest-service/application/commands"
	"encore/contexts/contest-operations/contest-service/application/queries"
	"encore/contexts/contest-operations/contest-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Contests queries.ContestUseCase
	Store    *memory.Store
}

type Dependencies struct {
	Contests ports.ContestRepository
	Winners  ports.WinnerRepository
	Tallies  ports.TallySource
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	contestQueries := queries.ContestUseCase{
		Contests: deps.Contests,
		Winners:  deps.Winners,
		Clock:    deps.Clock,
	}
	return Module{
		Handler: httpadapter.Handler{
			Create: commands.CreateContestUseCase{
				Contests: deps.Contests,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			Archive: commands.ArchiveContestUseCase{
				Contests: deps.Contests,
				Clock:    deps.Clock,
				Logger:   deps.Logger,
			},
			Finalize: commands.FinalizeWinnerUseCase{
				Contests: deps.Contests,
				Winners:  deps.Winners,
				Tallies:  deps.Tallies,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			Contests: contestQueries,
			Logger:   deps.Logger,
		},
		Contests: contestQueries,
	}
}

func NewInMemoryModule(tallies ports.TallySource, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Contests: store,
		Winners:  store,
		Tallies:  tallies,
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
