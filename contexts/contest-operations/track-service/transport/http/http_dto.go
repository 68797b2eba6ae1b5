package httptransport

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SubmitTrackRequest struct {
	ContestID   string `json:"contest_id"`
	ArtistName  string `json:"artist_name"`
	Title       string `json:"title"`
	Genre       string `json:"genre,omitempty"`
	AudioURL    string `json:"audio_url"`
	CoverArtURL string `json:"cover_art_url,omitempty"`
}

type UpdateTrackRequest struct {
	Title       string `json:"title,omitempty"`
	Genre       string `json:"genre,omitempty"`
	AudioURL    string `json:"audio_url,omitempty"`
	CoverArtURL string `json:"cover_art_url,omitempty"`
}

type TrackDTO struct {
	TrackID         string `json:"track_id"`
	ContestID       string `json:"contest_id"`
	ArtistID        string `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	Title           string `json:"title"`
	Genre           string `json:"genre,omitempty"`
	AudioURL        string `json:"audio_url"`
	CoverArtURL     string `json:"cover_art_url,omitempty"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason,omitempty"`
	VoteCount       int64  `json:"vote_count"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type TrackResponse struct {
	Status string   `json:"status"`
	Data   TrackDTO `json:"data"`
}

type TrackListResponse struct {
	Status string     `json:"status"`
	Data   []TrackDTO `json:"data"`
}
