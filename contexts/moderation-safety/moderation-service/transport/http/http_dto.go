package httptransport

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ApproveTrackRequest struct {
	ContestID string `json:"contest_id"`
	Reason    string `json:"reason,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

type RejectTrackRequest struct {
	ContestID       string `json:"contest_id"`
	RejectionReason string `json:"rejection_reason"`
	Notes           string `json:"notes,omitempty"`
}

type DecisionDTO struct {
	DecisionID  string `json:"decision_id"`
	TrackID     string `json:"track_id"`
	ContestID   string `json:"contest_id"`
	ModeratorID string `json:"moderator_id"`
	Action      string `json:"action"`
	Reason      string `json:"reason,omitempty"`
	Notes       string `json:"notes,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type DecisionResponse struct {
	Status string      `json:"status"`
	Data   DecisionDTO `json:"data"`
}

type DecisionListResponse struct {
	Status string        `json:"status"`
	Data   []DecisionDTO `json:"data"`
}

type QueueItemDTO struct {
	TrackID    string `json:"track_id"`
	ContestID  string `json:"contest_id"`
	ArtistID   string `json:"artist_id"`
	ArtistName string `json:"artist_name,omitempty"`
	Title      string `json:"title"`
	Genre      string `json:"genre,omitempty"`
	AudioURL   string `json:"audio_url"`
	QueuedAt   string `json:"queued_at"`
}

type QueueResponse struct {
	Status string         `json:"status"`
	Data   []QueueItemDTO `json:"data"`
}
