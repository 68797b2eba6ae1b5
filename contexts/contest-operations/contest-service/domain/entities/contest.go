package entities

import (
	"strings"
	"time"
)

type Phase string

const (
	PhaseScheduled        Phase = "scheduled"
	PhaseRegistrationOpen Phase = "registration_open"
	PhaseVotingOpen       Phase = "voting_open"
	PhaseClosed           Phase = "closed"
)

type Operation string

const (
	OperationArtistRegistration Operation = "artist_registration"
	OperationTrackSubmission    Operation = "track_submission"
	OperationModerationDecision Operation = "moderation_decision"
	OperationVoteCast           Operation = "vote_cast"
	OperationWinnerFinalization Operation = "winner_finalization"
)

type Contest struct {
	ContestID            string
	Title                string
	Description          string
	RegistrationStartsAt time.Time
	RegistrationEndsAt   time.Time
	VotingStartsAt       time.Time
	VotingEndsAt         time.Time
	Archived             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PhaseAt derives the contest phase from its boundaries and the given
// instant. End instants are exclusive (strict <) so no window is open-ended
// and boundary ties resolve to the earlier phase.
func (c Contest) PhaseAt(now time.Time) Phase {
	now = now.UTC()
	switch {
	case now.Before(c.RegistrationStartsAt):
		return PhaseScheduled
	case now.Before(c.RegistrationEndsAt):
		return PhaseRegistrationOpen
	case !now.Before(c.VotingStartsAt) && now.Before(c.VotingEndsAt):
		return PhaseVotingOpen
	case now.Before(c.VotingStartsAt):
		// Gap between registration close and voting open: nothing is
		// permitted, which closed already expresses for every operation
		// except finalization; scheduled keeps finalization shut too.
		return PhaseScheduled
	default:
		return PhaseClosed
	}
}

// PhaseEndsAt returns the instant the given phase ends, for countdown
// display. Zero time means the phase has no end (closed) or is unknown.
func (c Contest) PhaseEndsAt(phase Phase) time.Time {
	switch phase {
	case PhaseScheduled:
		return c.RegistrationStartsAt
	case PhaseRegistrationOpen:
		return c.RegistrationEndsAt
	case PhaseVotingOpen:
		return c.VotingEndsAt
	default:
		return time.Time{}
	}
}

// IsOperationAllowed is the phase gate table. Moderation spans both open
// windows; finalization only runs once the contest is closed.
func IsOperationAllowed(op Operation, phase Phase) bool {
	switch op {
	case OperationArtistRegistration, OperationTrackSubmission:
		return phase == PhaseRegistrationOpen
	case OperationModerationDecision:
		return phase == PhaseRegistrationOpen || phase == PhaseVotingOpen
	case OperationVoteCast:
		return phase == PhaseVotingOpen
	case OperationWinnerFinalization:
		return phase == PhaseClosed
	default:
		return false
	}
}

// ValidateBoundaries checks that the windows are ordered and non-overlapping.
func (c Contest) ValidateBoundaries() bool {
	return strings.TrimSpace(c.Title) != "" &&
		!c.RegistrationStartsAt.IsZero() &&
		c.RegistrationStartsAt.Before(c.RegistrationEndsAt) &&
		!c.RegistrationEndsAt.After(c.VotingStartsAt) &&
		c.VotingStartsAt.Before(c.VotingEndsAt)
}
