package httptransport

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type CastVoteRequest struct {
	TrackID string `json:"track_id"`
}

type VoteDTO struct {
	VoteID    string `json:"vote_id"`
	ContestID string `json:"contest_id"`
	TrackID   string `json:"track_id"`
	CastAt    string `json:"cast_at"`
}

type CastVoteResponse struct {
	Status    string  `json:"status"`
	Data      VoteDTO `json:"data"`
	VoteCount int64   `json:"vote_count"`
}

// AlreadyVotedResponse is the conflict body for a duplicate cast. Data holds
// the vote already on the ledger, so the caller learns which track won.
type AlreadyVotedResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Data    VoteDTO `json:"data"`
}

type VoterStatusResponse struct {
	Status string `json:"status"`
	Data   struct {
		HasVoted bool     `json:"has_voted"`
		Vote     *VoteDTO `json:"vote,omitempty"`
	} `json:"data"`
}

type RankDTO struct {
	Position   int     `json:"position"`
	TrackID    string  `json:"track_id"`
	Title      string  `json:"title"`
	ArtistID   string  `json:"artist_id"`
	ArtistName string  `json:"artist_name,omitempty"`
	VoteCount  int64   `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

type LeaderboardResponse struct {
	Status    string    `json:"status"`
	ContestID string    `json:"contest_id"`
	Data      []RankDTO `json:"data"`
}
