package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	contestservice "encore/contexts/contest-operations/contest-service"
	trackservice "encore/contexts/contest-operations/track-service"
	voteledger "encore/contexts/contest-operations/vote-ledger"
	paymentverifier "encore/contexts/finance-core/payment-verifier"
	identitygate "encore/contexts/identity-access/identity-gate"
	moderationservice "encore/contexts/moderation-safety/moderation-service"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "encore/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	tokenTTL   time.Duration
	identity   identitygate.Module
	contests   contestservice.Module
	tracks     trackservice.Module
	votes      voteledger.Module
	payments   paymentverifier.Module
	moderation moderationservice.Module
}

type Dependencies struct {
	Identity   identitygate.Module
	Contests   contestservice.Module
	Tracks     trackservice.Module
	Votes      voteledger.Module
	Payments   paymentverifier.Module
	Moderation moderationservice.Module
	TokenTTL   time.Duration
	Logger     *slog.Logger
	Addr       string
}

func New(deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := deps.Addr
	if addr == "" {
		addr = ":8080"
	}
	tokenTTL := deps.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		tokenTTL:   tokenTTL,
		identity:   deps.Identity,
		contests:   deps.Contests,
		tracks:     deps.Tracks,
		votes:      deps.Votes,
		payments:   deps.Payments,
		moderation: deps.Moderation,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/auth/token", s.handleIssueToken)

	s.mux.HandleFunc("GET /api/contests", s.handleListContests)
	s.mux.HandleFunc("POST /api/contests", s.handleCreateContest)
	s.mux.HandleFunc("GET /api/contests/current", s.handleCurrentContest)
	s.mux.HandleFunc("GET /api/contests/{contest_id}", s.handleGetContest)
	s.mux.HandleFunc("POST /api/contests/{contest_id}/archive", s.handleArchiveContest)
	s.mux.HandleFunc("POST /api/contests/{contest_id}/finalize", s.handleFinalizeWinner)

	s.mux.HandleFunc("GET /api/tracks", s.handleApprovedTracks)
	s.mux.HandleFunc("GET /api/tracks/mine", s.handleArtistTracks)
	s.mux.HandleFunc("POST /api/tracks/submit", s.handleSubmitTrack)
	s.mux.HandleFunc("PUT /api/tracks/{track_id}", s.handleUpdateTrack)

	s.mux.HandleFunc("POST /api/votes/cast", s.handleCastVote)
	s.mux.HandleFunc("GET /api/votes/status", s.handleVoterStatus)
	s.mux.HandleFunc("GET /api/leaderboard/{contest_id}", s.handleLeaderboard)

	s.mux.HandleFunc("POST /api/payments/initiate", s.handleInitiatePayment)
	s.mux.HandleFunc("POST /api/payments/verify", s.handleVerifyPayment)
	s.mux.HandleFunc("POST /api/payments/webhook", s.handleProviderWebhook)
	s.mux.HandleFunc("GET /api/payments/status/{tx_ref}", s.handlePaymentStatus)

	s.mux.HandleFunc("GET /api/moderation/queue", s.handleModerationQueue)
	s.mux.HandleFunc("POST /api/moderation/tracks/{track_id}/approve", s.handleApproveTrack)
	s.mux.HandleFunc("POST /api/moderation/tracks/{track_id}/reject", s.handleRejectTrack)
	s.mux.HandleFunc("GET /api/moderation/decisions", s.handleListDecisions)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func resolveClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
