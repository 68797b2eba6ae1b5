package workers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "encore/contexts/contest-operations/vote-ledger/application"
	domainerrors "encore/contexts/contest-operations/vote-ledger/domain/errors"
	"encore/contexts/contest-operations/vote-ledger/ports"
)

// Drift is one cached count that disagreed with the ledger.
type Drift struct {
	TrackID string
	Cached  int64
	Ledger  int64
}

// TallyReconciler repairs the denormalized track vote counts from the ledger.
// The event pipeline keeps the cache current in the happy path; this job
// catches counts that drifted through missed or reordered deliveries.
type TallyReconciler struct {
	Votes  ports.VoteRepository
	Cache  ports.TallyCache
	Clock  ports.Clock
	Logger *slog.Logger
}

// ReconcileContest resets every drifted cached count to the ledger value and
// reports what changed. Zero drift is the expected steady state.
func (r TallyReconciler) ReconcileContest(ctx context.Context, contestID string) ([]Drift, error) {
	logger := application.ResolveLogger(r.Logger)
	contestID = strings.TrimSpace(contestID)
	if contestID == "" {
		return nil, domainerrors.ErrInvalidVoteInput
	}

	tally, err := r.Votes.TallyByContest(ctx, contestID)
	if err != nil {
		return nil, err
	}
	cached, err := r.Cache.CachedCounts(ctx, contestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	var drifts []Drift
	for trackID, cachedCount := range cached {
		ledgerCount := tally[trackID]
		if cachedCount == ledgerCount {
			continue
		}
		if err := r.Cache.SetVoteCount(ctx, trackID, ledgerCount, now); err != nil {
			return drifts, err
		}
		drifts = append(drifts, Drift{TrackID: trackID, Cached: cachedCount, Ledger: ledgerCount})
		logger.Warn("vote count drift repaired",
			"event", "vote_tally_drift_repaired",
			"module", "contest-operations/vote-ledger",
			"layer", "worker",
			"contest_id", contestID,
			"track_id", trackID,
			"cached_count", cachedCount,
			"ledger_count", ledgerCount,
		)
	}
	return drifts, nil
}
