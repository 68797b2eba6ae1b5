package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	contestservice "encore/contexts/contest-operations/contest-service"
	contestpg "encore/contexts/contest-operations/contest-service/adapters/postgres"
	contestqueries "encore/contexts/contest-operations/contest-service/application/queries"
	trackservice "encore/contexts/contest-operations/track-service"
	trackpg "encore/contexts/contest-operations/track-service/adapters/postgres"
	trackworkers "encore/contexts/contest-operations/track-service/application/workers"
	voteledger "encore/contexts/contest-operations/vote-ledger"
	votepg "encore/contexts/contest-operations/vote-ledger/adapters/postgres"
	voteworkers "encore/contexts/contest-operations/vote-ledger/application/workers"
	paymentverifier "encore/contexts/finance-core/payment-verifier"
	paymentpg "encore/contexts/finance-core/payment-verifier/adapters/postgres"
	paymentprovider "encore/contexts/finance-core/payment-verifier/adapters/provider"
	identitygate "encore/contexts/identity-access/identity-gate"
	moderationservice "encore/contexts/moderation-safety/moderation-service"
	moderationpg "encore/contexts/moderation-safety/moderation-service/adapters/postgres"
	"encore/internal/platform/config"
	"encore/internal/platform/db"
	"encore/internal/platform/httpserver"
	"encore/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres          *db.Postgres
	outboxRelay       voteworkers.OutboxRelay
	tallyConsumer     trackworkers.VoteTallyConsumer
	reconciler        voteworkers.TallyReconciler
	contests          contestqueries.ContestUseCase
	enableConsumer    bool
	pollInterval      time.Duration
	reconcileInterval time.Duration
	logger            *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return nil, errors.New("TOKEN_SECRET is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(); err != nil {
		return nil, err
	}

	contestRepo := contestpg.NewRepository(pg.DB, logger)
	trackRepo := trackpg.NewRepository(pg.DB, logger)
	voteRepo := votepg.NewRepository(pg.DB, logger)
	paymentRepo := paymentpg.NewRepository(pg.DB, logger)
	moderationRepo := moderationpg.NewRepository(pg.DB, logger)

	clock := contestpg.SystemClock{}
	idGen := contestpg.UUIDGenerator{}

	contestQueries := contestqueries.ContestUseCase{
		Contests: contestRepo,
		Winners:  contestRepo,
		Clock:    clock,
	}
	gate := phaseGate{contests: contestQueries}

	paymentModule := paymentverifier.NewModule(paymentverifier.Dependencies{
		Repository:    paymentRepo,
		Provider:      paymentprovider.NewClient(cfg.ProviderBaseURL, cfg.ProviderSecret, cfg.ProviderTimeout),
		Gate:          gate,
		Clock:         clock,
		IDGenerator:   idGen,
		FeeAmount:     cfg.RegistrationFeeAmount,
		FeeCurrency:   cfg.RegistrationFeeCurrency,
		WebhookHash:   cfg.WebhookHash,
		VerifyTimeout: cfg.ProviderTimeout,
		Logger:        logger,
	})

	trackModule := trackservice.NewModule(trackservice.Dependencies{
		Tracks:   trackRepo,
		Payments: paymentStatusClient{payments: paymentModule.Service},
		Gate:     gate,
		Winners:  winnerHistory{winners: contestRepo},
		Clock:    clock,
		IDGen:    idGen,
		Logger:   logger,
	})

	voteModule := voteledger.NewModule(voteledger.Dependencies{
		Votes:  voteRepo,
		Tracks: trackCatalog{tracks: trackModule.Tracks},
		Gate:   gate,
		Outbox: voteRepo,
		Clock:  clock,
		IDGen:  idGen,
		Logger: logger,
	})

	moderationModule := moderationservice.NewModule(moderationservice.Dependencies{
		Repository:     moderationRepo,
		Idempotency:    moderationRepo,
		TrackClient:    trackDecisionClient{decide: trackModule.Decide},
		Queue:          trackQueueClient{tracks: trackModule.Tracks},
		Gate:           gate,
		Clock:          clock,
		IDGenerator:    idGen,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	contestModule := contestservice.NewModule(contestservice.Dependencies{
		Contests: contestRepo,
		Winners:  contestRepo,
		Tallies: tallySource{
			tracks: trackModule.Tracks,
			votes:  voteModule.Leaderboard,
		},
		Clock:  clock,
		IDGen:  idGen,
		Logger: logger,
	})

	identityModule := identitygate.NewModule(identitygate.Dependencies{
		Secret: []byte(cfg.TokenSecret),
		Clock:  clock,
		Logger: logger,
	})

	server := httpserver.New(httpserver.Dependencies{
		Identity:   identityModule,
		Contests:   contestModule,
		Tracks:     trackModule,
		Votes:      voteModule,
		Payments:   paymentModule,
		Moderation: moderationModule,
		TokenTTL:   cfg.TokenTTL,
		Logger:     logger,
		Addr:       normalizeAddr(cfg.HTTPPort),
	})
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(); err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	contestRepo := contestpg.NewRepository(pg.DB, logger)
	trackRepo := trackpg.NewRepository(pg.DB, logger)
	voteRepo := votepg.NewRepository(pg.DB, logger)
	clock := contestpg.SystemClock{}

	return &WorkerApp{
		postgres: pg,
		outboxRelay: voteworkers.OutboxRelay{
			Outbox:    voteRepo,
			Publisher: kafka,
			Clock:     clock,
			BatchSize: 100,
			Logger:    logger,
		},
		tallyConsumer: trackworkers.VoteTallyConsumer{
			Subscriber: kafka,
			Tracks:     trackRepo,
			Dedup:      trackRepo,
			Clock:      clock,
			Logger:     logger,
		},
		reconciler: voteworkers.TallyReconciler{
			Votes:  voteRepo,
			Cache:  trackTallyCache{tracks: trackRepo},
			Clock:  clock,
			Logger: logger,
		},
		contests: contestqueries.ContestUseCase{
			Contests: contestRepo,
			Winners:  contestRepo,
			Clock:    clock,
		},
		enableConsumer:    cfg.EnableVoteTallyConsumer,
		pollInterval:      cfg.OutboxRelayInterval,
		reconcileInterval: cfg.TallyReconcileInterval,
		logger:            logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.enableConsumer {
		if err := w.tallyConsumer.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	reconcileTicker := time.NewTicker(w.reconcileInterval)
	defer reconcileTicker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-reconcileTicker.C:
			w.reconcileTallies(ctx)
		case <-ticker.C:
		}
	}
}

// reconcileTallies repairs cached vote counts across every live contest.
// Drift here is recoverable, so failures are logged and retried next tick
// instead of stopping the worker.
func (w *WorkerApp) reconcileTallies(ctx context.Context) {
	contests, err := w.contests.ListContests(ctx)
	if err != nil {
		w.logger.Error("tally reconcile list contests failed",
			"event", "worker_reconcile_list_failed",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
		)
		return
	}
	for _, contest := range contests {
		if contest.Contest.Archived {
			continue
		}
		if _, err := w.reconciler.ReconcileContest(ctx, contest.Contest.ContestID); err != nil {
			w.logger.Error("tally reconcile failed",
				"event", "worker_reconcile_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"contest_id", contest.Contest.ContestID,
				"error", err.Error(),
			)
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
