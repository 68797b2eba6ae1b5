package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	voteledger "encore/contexts/contest-operations/vote-ledger"
	voteports "encore/contexts/contest-operations/vote-ledger/ports"
	votehttp "encore/contexts/contest-operations/vote-ledger/transport/http"
	identitygate "encore/contexts/identity-access/identity-gate"
)

type routeCatalog struct {
	refs map[string]voteports.TrackRef
}

func (c routeCatalog) GetTrackRef(_ context.Context, trackID string) (voteports.TrackRef, bool, error) {
	ref, ok := c.refs[trackID]
	return ref, ok, nil
}

func (c routeCatalog) ApprovedTrackRefs(_ context.Context, contestID string) ([]voteports.TrackRef, error) {
	refs := make([]voteports.TrackRef, 0, len(c.refs))
	for _, ref := range c.refs {
		if ref.ContestID == contestID && ref.Approved {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

type openGate struct{}

func (openGate) AllowVoteCast(context.Context, string) error { return nil }

func newVoteTestServer(t *testing.T) *Server {
	t.Helper()
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	catalog := routeCatalog{refs: map[string]voteports.TrackRef{
		"track-1": {
			TrackID:    "track-1",
			ContestID:  "contest-1",
			ArtistID:   "artist-1",
			ArtistName: "Ada",
			Title:      "First Light",
			Approved:   true,
			CreatedAt:  base,
		},
		"track-2": {
			TrackID:    "track-2",
			ContestID:  "contest-1",
			ArtistID:   "artist-2",
			ArtistName: "Ben",
			Title:      "Afterglow",
			Approved:   true,
			CreatedAt:  base.Add(time.Hour),
		},
	}}
	return New(Dependencies{
		Identity: identitygate.NewModule(identitygate.Dependencies{Secret: []byte("route-test-secret")}),
		Votes:    voteledger.NewInMemoryModule(catalog, openGate{}, nil, nil),
		Addr:     ":0",
	})
}

func (s *Server) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.mux.ServeHTTP(rec, req)
	return rec
}

func issueToken(t *testing.T, s *Server, userID string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/auth/token", "", issueTokenRequest{
		UserID: userID,
		Roles:  []string{"voter"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("issue token returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp issueTokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode token response: %v", err)
	}
	return resp.Token
}

func TestCastVoteRouteCommitsAndConflictsOnReplay(t *testing.T) {
	s := newVoteTestServer(t)
	token := issueToken(t, s, "voter-1")

	rec := s.do(t, http.MethodPost, "/api/votes/cast", token, votehttp.CastVoteRequest{TrackID: "track-1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("cast returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp votehttp.CastVoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode cast response: %v", err)
	}
	if resp.Status != "success" || resp.Data.TrackID != "track-1" || resp.VoteCount != 1 {
		t.Fatalf("unexpected cast response: %+v", resp)
	}

	// Same voter again, even for another track, hits the one-vote ledger rule.
	// The conflict body names the track that already holds the vote.
	rec = s.do(t, http.MethodPost, "/api/votes/cast", token, votehttp.CastVoteRequest{TrackID: "track-2"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("replayed cast returned %d: %s", rec.Code, rec.Body.String())
	}
	var conflict votehttp.AlreadyVotedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &conflict); err != nil {
		t.Fatalf("decode conflict response: %v", err)
	}
	if conflict.Status != "already_voted" || conflict.Message == "" {
		t.Fatalf("unexpected conflict payload: %+v", conflict)
	}
	if conflict.Data.TrackID != "track-1" || conflict.Data.VoteID != resp.Data.VoteID {
		t.Fatalf("conflict body must reference the committed vote, got %+v", conflict.Data)
	}
}

func TestVoteRoutesRequireBearerToken(t *testing.T) {
	s := newVoteTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/votes/cast", "", votehttp.CastVoteRequest{TrackID: "track-1"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated cast returned %d", rec.Code)
	}
	rec = s.do(t, http.MethodGet, "/api/votes/status?contest_id=contest-1", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token returned %d", rec.Code)
	}
}

func TestVoterStatusRouteReflectsLedger(t *testing.T) {
	s := newVoteTestServer(t)
	token := issueToken(t, s, "voter-2")

	rec := s.do(t, http.MethodGet, "/api/votes/status?contest_id=contest-1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status returned %d: %s", rec.Code, rec.Body.String())
	}
	var before votehttp.VoterStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &before); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if before.Data.HasVoted {
		t.Fatalf("expected no vote before casting")
	}

	if rec := s.do(t, http.MethodPost, "/api/votes/cast", token, votehttp.CastVoteRequest{TrackID: "track-2"}); rec.Code != http.StatusCreated {
		t.Fatalf("cast returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = s.do(t, http.MethodGet, "/api/votes/status?contest_id=contest-1", token, nil)
	var after votehttp.VoterStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &after); err != nil {
		t.Fatalf("decode status response: %v", err)
	}
	if !after.Data.HasVoted || after.Data.Vote == nil || after.Data.Vote.TrackID != "track-2" {
		t.Fatalf("unexpected status after cast: %+v", after)
	}
}

func TestLeaderboardRouteIsPublic(t *testing.T) {
	s := newVoteTestServer(t)
	token := issueToken(t, s, "voter-3")
	if rec := s.do(t, http.MethodPost, "/api/votes/cast", token, votehttp.CastVoteRequest{TrackID: "track-2"}); rec.Code != http.StatusCreated {
		t.Fatalf("cast returned %d: %s", rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/leaderboard/contest-1", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp votehttp.LeaderboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode leaderboard response: %v", err)
	}
	if resp.ContestID != "contest-1" || len(resp.Data) != 2 {
		t.Fatalf("unexpected leaderboard: %+v", resp)
	}
	if resp.Data[0].TrackID != "track-2" || resp.Data[0].VoteCount != 1 {
		t.Fatalf("unexpected top rank: %+v", resp.Data[0])
	}
	if resp.Data[1].VoteCount != 0 {
		t.Fatalf("expected zero-vote track in standings: %+v", resp.Data[1])
	}
}
