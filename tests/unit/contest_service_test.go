package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	contestservice "encore/contexts/contest-operations/contest-service"
	"encore/contexts/contest-operations/contest-service/domain/entities"
	domainerrors "encore/contexts/contest-operations/contest-service/domain/errors"
	"encore/contexts/contest-operations/contest-service/ports"
	httptransport "encore/contexts/contest-operations/contest-service/transport/http"
	identityentities "encore/contexts/identity-access/identity-gate/domain/entities"
)

type stubTallySource struct {
	standings []ports.TrackStanding
	err       error
}

func (s stubTallySource) ContestStandings(context.Context, string) ([]ports.TrackStanding, error) {
	return s.standings, s.err
}

func adminPrincipal() identityentities.Principal {
	return identityentities.Principal{UserID: "admin-1", Roles: []string{identityentities.RoleAdmin}}
}

func contestWindow(base time.Time) httptransport.CreateContestRequest {
	return httptransport.CreateContestRequest{
		Title:                "Open Mic September",
		Description:          "Monthly single-winner contest",
		RegistrationStartsAt: base.Format(time.RFC3339),
		RegistrationEndsAt:   base.Add(48 * time.Hour).Format(time.RFC3339),
		VotingStartsAt:       base.Add(48 * time.Hour).Format(time.RFC3339),
		VotingEndsAt:         base.Add(96 * time.Hour).Format(time.RFC3339),
	}
}

func TestCreateContestRequiresAdmin(t *testing.T) {
	module := contestservice.NewInMemoryModule(stubTallySource{}, nil)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	voter := identityentities.Principal{UserID: "voter-1", Roles: []string{identityentities.RoleVoter}}
	if _, err := module.Handler.CreateContestHandler(context.Background(), voter, contestWindow(base)); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin, got %v", err)
	}

	if _, err := module.Handler.CreateContestHandler(context.Background(), adminPrincipal(), contestWindow(base)); err != nil {
		t.Fatalf("create contest failed: %v", err)
	}
}

func TestCreateContestRejectsDisorderedWindows(t *testing.T) {
	module := contestservice.NewInMemoryModule(stubTallySource{}, nil)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	req := contestWindow(base)
	req.VotingStartsAt = base.Add(24 * time.Hour).Format(time.RFC3339)
	if _, err := module.Handler.CreateContestHandler(context.Background(), adminPrincipal(), req); !errors.Is(err, domainerrors.ErrInvalidContestInput) {
		t.Fatalf("expected invalid input for voting overlapping registration, got %v", err)
	}
}

func TestContestPhaseBoundariesAreExclusive(t *testing.T) {
	module := contestservice.NewInMemoryModule(stubTallySource{}, nil)
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	module.Store.SetNow(func() time.Time { return base.Add(-time.Hour) })

	created, err := module.Handler.CreateContestHandler(context.Background(), adminPrincipal(), contestWindow(base))
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}

	checks := []struct {
		at   time.Time
		want entities.Phase
	}{
		{base.Add(-time.Second), entities.PhaseScheduled},
		{base, entities.PhaseRegistrationOpen},
		{base.Add(48*time.Hour - time.Second), entities.PhaseRegistrationOpen},
		{base.Add(48 * time.Hour), entities.PhaseVotingOpen},
		{base.Add(96*time.Hour - time.Second), entities.PhaseVotingOpen},
		{base.Add(96 * time.Hour), entities.PhaseClosed},
	}
	for _, check := range checks {
		module.Store.SetNow(func() time.Time { return check.at })
		state, err := module.Contests.GetContest(context.Background(), created.ContestID)
		if err != nil {
			t.Fatalf("get contest at %s failed: %v", check.at, err)
		}
		if state.Phase != check.want {
			t.Fatalf("at %s: expected phase %s, got %s", check.at, check.want, state.Phase)
		}
	}
}

func TestFinalizeWinnerOnlyAfterClose(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	tallies := stubTallySource{standings: []ports.TrackStanding{
		{TrackID: "track-1", ArtistID: "artist-1", VoteCount: 10, TrackCreatedAt: base.Add(2 * time.Hour)},
		{TrackID: "track-2", ArtistID: "artist-2", VoteCount: 12, TrackCreatedAt: base.Add(3 * time.Hour)},
	}}
	module := contestservice.NewInMemoryModule(tallies, nil)
	module.Store.SetNow(func() time.Time { return base.Add(-time.Hour) })

	created, err := module.Handler.CreateContestHandler(context.Background(), adminPrincipal(), contestWindow(base))
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}

	module.Store.SetNow(func() time.Time { return base.Add(95 * time.Hour) })
	if _, err := module.Handler.FinalizeWinnerHandler(context.Background(), adminPrincipal(), created.ContestID); !errors.Is(err, domainerrors.ErrVotingStillOpen) {
		t.Fatalf("expected voting-still-open before close, got %v", err)
	}

	module.Store.SetNow(func() time.Time { return base.Add(97 * time.Hour) })
	winner, err := module.Handler.FinalizeWinnerHandler(context.Background(), adminPrincipal(), created.ContestID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if winner.TrackID != "track-2" || winner.FinalVoteCount != 12 {
		t.Fatalf("expected track-2 with 12 votes, got %s with %d", winner.TrackID, winner.FinalVoteCount)
	}
	if winner.Replayed {
		t.Fatalf("first finalization must not be a replay")
	}
}

func TestFinalizeWinnerTieBreaksOnEarliestSubmission(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	tallies := stubTallySource{standings: []ports.TrackStanding{
		{TrackID: "track-late", ArtistID: "artist-2", VoteCount: 7, TrackCreatedAt: base.Add(5 * time.Hour)},
		{TrackID: "track-early", ArtistID: "artist-1", VoteCount: 7, TrackCreatedAt: base.Add(1 * time.Hour)},
	}}
	module := contestservice.NewInMemoryModule(tallies, nil)
	module.Store.SetNow(func() time.Time { return base.Add(-time.Hour) })

	created, err := module.Handler.CreateContestHandler(context.Background(), adminPrincipal(), contestWindow(base))
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}

	module.Store.SetNow(func() time.Time { return base.Add(100 * time.Hour) })
	winner, err := module.Handler.FinalizeWinnerHandler(context.Background(), adminPrincipal(), created.ContestID)
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if winner.TrackID != "track-early" {
		t.Fatalf("expected earliest submission to win the tie, got %s", winner.TrackID)
	}
}

func TestFinalizeWinnerReplayKeepsFirstResult(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	module := contestservice.NewInMemoryModule(stubTallySource{standings: []ports.TrackStanding{
		{TrackID: "track-1", ArtistID: "artist-1", VoteCount: 4, TrackCreatedAt: base},
	}}, nil)
	module.Store.SetNow(func() time.Time { return base.Add(-time.Hour) })

	created, err := module.Handler.CreateContestHandler(context.Background(), adminPrincipal(), contestWindow(base))
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}

	module.Store.SetNow(func() time.Time { return base.Add(100 * time.Hour) })
	first, err := module.Handler.FinalizeWinnerHandler(context.Background(), adminPrincipal(), created.ContestID)
	if err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	second, err := module.Handler.FinalizeWinnerHandler(context.Background(), adminPrincipal(), created.ContestID)
	if err != nil {
		t.Fatalf("replayed finalize failed: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("second finalization must report replayed")
	}
	if second.TrackID != first.TrackID || second.FinalVoteCount != first.FinalVoteCount {
		t.Fatalf("replay must return stored winner, got %+v vs %+v", second, first)
	}
}

func TestFinalizeWinnerWithoutEligibleTracks(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	module := contestservice.NewInMemoryModule(stubTallySource{}, nil)
	module.Store.SetNow(func() time.Time { return base.Add(-time.Hour) })

	created, err := module.Handler.CreateContestHandler(context.Background(), adminPrincipal(), contestWindow(base))
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}

	module.Store.SetNow(func() time.Time { return base.Add(100 * time.Hour) })
	if _, err := module.Handler.FinalizeWinnerHandler(context.Background(), adminPrincipal(), created.ContestID); !errors.Is(err, domainerrors.ErrNoEligibleTracks) {
		t.Fatalf("expected no-eligible-tracks, got %v", err)
	}
}

func TestArchiveContestRequiresAdmin(t *testing.T) {
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	module := contestservice.NewInMemoryModule(stubTallySource{}, nil)
	module.Store.SetNow(func() time.Time { return base })

	created, err := module.Handler.CreateContestHandler(context.Background(), adminPrincipal(), contestWindow(base))
	if err != nil {
		t.Fatalf("create contest failed: %v", err)
	}

	voter := identityentities.Principal{UserID: "voter-7", Roles: []string{identityentities.RoleVoter}}
	if _, err := module.Handler.ArchiveContestHandler(context.Background(), voter, created.ContestID); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for non-admin archive, got %v", err)
	}

	archived, err := module.Handler.ArchiveContestHandler(context.Background(), adminPrincipal(), created.ContestID)
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if archived.ContestID != created.ContestID {
		t.Fatalf("archive returned wrong contest: %s", archived.ContestID)
	}
}

func TestWinnerHistoryListsByArtist(t *testing.T) {
	module := contestservice.NewInMemoryModule(stubTallySource{}, nil)
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	for i, contestID := range []string{"contest-a", "contest-b"} {
		if _, _, err := module.Store.SaveWinner(context.Background(), entities.ContestWinner{
			WinnerID:       contestID + "-winner",
			ContestID:      contestID,
			TrackID:        "track-1",
			ArtistID:       "artist-1",
			FinalVoteCount: 3,
			FinalizedAt:    now.AddDate(0, -6*i, 0),
		}); err != nil {
			t.Fatalf("save winner failed: %v", err)
		}
	}

	wins, err := module.Store.ListWinnersByArtist(context.Background(), "artist-1")
	if err != nil {
		t.Fatalf("list winners failed: %v", err)
	}
	if len(wins) != 2 {
		t.Fatalf("expected 2 wins, got %d", len(wins))
	}
	if wins[0].FinalizedAt.Before(wins[1].FinalizedAt) {
		t.Fatalf("wins must be ordered most recent first")
	}
}
