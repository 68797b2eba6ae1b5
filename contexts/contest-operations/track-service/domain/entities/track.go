package entities

import (
	"strings"
	"time"
)

const (
	TrackStatusPending  = "pending"
	TrackStatusApproved = "approved"
	TrackStatusRejected = "rejected"
)

// Track is an artist's single entry in a contest. VoteCount is a
// denormalized cache maintained from committed vote events; the vote
// ledger remains the source of truth.
type Track struct {
	TrackID         string
	ContestID       string
	ArtistID        string
	ArtistName      string
	Title           string
	Genre           string
	AudioURL        string
	CoverArtURL     string
	Status          string
	RejectionReason string
	VoteCount       int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t Track) ValidateSubmit() bool {
	return strings.TrimSpace(t.ContestID) != "" &&
		strings.TrimSpace(t.ArtistID) != "" &&
		strings.TrimSpace(t.Title) != "" &&
		strings.TrimSpace(t.AudioURL) != ""
}

func (t Track) IsDecided() bool {
	return t.Status == TrackStatusApproved || t.Status == TrackStatusRejected
}
