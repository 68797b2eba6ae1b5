package bootstrap

import (
	"context"
	"errors"

	contestqueries "encore/contexts/contest-operations/contest-service/application/queries"
	contestentities "encore/contexts/contest-operations/contest-service/domain/entities"
	contesterrors "encore/contexts/contest-operations/contest-service/domain/errors"
	trackerrors "encore/contexts/contest-operations/track-service/domain/errors"
	voteerrors "encore/contexts/contest-operations/vote-ledger/domain/errors"
	paymenterrors "encore/contexts/finance-core/payment-verifier/domain/errors"
	moderationerrors "encore/contexts/moderation-safety/moderation-service/domain/errors"
)

// phaseGate enforces the contest phase table for every guarded operation.
// Each consuming module sees its own closed-window sentinel; a missing or
// archived contest admits nothing.
type phaseGate struct {
	contests contestqueries.ContestUseCase
}

func (g phaseGate) AllowArtistRegistration(ctx context.Context, contestID string) error {
	return g.allow(ctx, contestID, contestentities.OperationArtistRegistration, paymenterrors.ErrRegistrationWindowClosed)
}

func (g phaseGate) AllowTrackSubmission(ctx context.Context, contestID string) error {
	return g.allow(ctx, contestID, contestentities.OperationTrackSubmission, trackerrors.ErrRegistrationClosed)
}

func (g phaseGate) AllowModerationDecision(ctx context.Context, contestID string) error {
	return g.allow(ctx, contestID, contestentities.OperationModerationDecision, moderationerrors.ErrDecisionWindowClosed)
}

func (g phaseGate) AllowVoteCast(ctx context.Context, contestID string) error {
	return g.allow(ctx, contestID, contestentities.OperationVoteCast, voteerrors.ErrVotingClosed)
}

func (g phaseGate) allow(ctx context.Context, contestID string, op contestentities.Operation, closed error) error {
	state, err := g.contests.GetContest(ctx, contestID)
	if err != nil {
		if errors.Is(err, contesterrors.ErrContestNotFound) {
			return closed
		}
		return err
	}
	if state.Contest.Archived {
		return closed
	}
	if !contestentities.IsOperationAllowed(op, state.Phase) {
		return closed
	}
	return nil
}
