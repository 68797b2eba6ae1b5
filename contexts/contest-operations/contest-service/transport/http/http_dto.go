package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateContestRequest struct {
	Title                string `json:"title"`
	Description          string `json:"description,omitempty"`
	RegistrationStartsAt string `json:"registration_starts_at"`
	RegistrationEndsAt   string `json:"registration_ends_at"`
	VotingStartsAt       string `json:"voting_starts_at"`
	VotingEndsAt         string `json:"voting_ends_at"`
}

type WinnerResponse struct {
	ContestID      string `json:"contest_id"`
	TrackID        string `json:"track_id"`
	ArtistID       string `json:"artist_id"`
	FinalVoteCount int    `json:"final_vote_count"`
	FinalizedAt    string `json:"finalized_at"`
	Replayed       bool   `json:"replayed,omitempty"`
}

type ContestResponse struct {
	ContestID            string          `json:"contest_id"`
	Title                string          `json:"title"`
	Description          string          `json:"description,omitempty"`
	Phase                string          `json:"phase"`
	RegistrationStartsAt string          `json:"registration_starts_at"`
	RegistrationEndsAt   string          `json:"registration_ends_at"`
	VotingStartsAt       string          `json:"voting_starts_at"`
	VotingEndsAt         string          `json:"voting_ends_at"`
	PhaseEndsAt          string          `json:"phase_ends_at,omitempty"`
	SecondsRemaining     int64           `json:"seconds_remaining,omitempty"`
	Archived             bool            `json:"archived"`
	Winner               *WinnerResponse `json:"winner,omitempty"`
}

type ContestListResponse struct {
	Items []ContestResponse `json:"items"`
}
