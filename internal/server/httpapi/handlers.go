package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/stravastats/internal/server/auth"
	"github.com/dmitrijs2005/stravastats/internal/server/metrics"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// handleLogin starts the OAuth flow: it issues a state nonce and returns the
// provider's authorization URL for the UI to redirect to.
func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := s.states.Issue()
	writeJSON(w, http.StatusOK, map[string]string{"auth_url": s.provider.AuthCodeURL(state)})
}

// handleCallback finishes the OAuth flow: it validates the state nonce,
// exchanges the code for a token triple, persists it, and hands the UI a
// session token for the athlete.
func (s *HTTPServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		writeError(w, http.StatusBadRequest, "authorization denied: "+errParam)
		return
	}

	state := r.URL.Query().Get("state")
	if !s.states.Consume(state) {
		writeError(w, http.StatusBadRequest, "unknown or expired state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code")
		return
	}

	cred, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusBadGateway, "code exchange failed")
		return
	}

	if err := s.creds.Save(ctx, cred); err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.GenerateToken(cred.UserID, s.jwtSecret, s.jwtValidity)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info(ctx, "Authorized", "user_id", cred.UserID)
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user_id": cred.UserID})
}

// handleSync runs a sync for the authenticated user. A failed run still
// returns 200 with the partial report; the error is carried in the body so
// the UI can show what was saved before the failure.
func (s *HTTPServer) handleSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	maxPages := s.syncMaxPages
	if p := r.URL.Query().Get("pages"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid pages parameter")
			return
		}
		if n > s.syncMaxPages {
			n = s.syncMaxPages
		}
		maxPages = n
	}

	s.logger.Info(ctx, "Sync request", "user_id", userID, "max_pages", maxPages)

	report, err := s.syncer.Sync(ctx, userID, maxPages)

	resp := map[string]any{
		"saved":  report.Saved,
		"pages":  report.Pages,
		"status": report.Status,
	}
	if err != nil {
		s.logger.Error(ctx, err.Error())
		resp["error"] = err.Error()
	}

	writeJSON(w, http.StatusOK, resp)
}

type activityDTO struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	StartDate      time.Time `json:"start_date"`
	DistanceMeters float64   `json:"distance"`
	MovingTime     int64     `json:"moving_time"`
	ElapsedTime    int64     `json:"elapsed_time"`
}

func (s *HTTPServer) handleActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return
	}

	acts, err := s.acts.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	result := make([]activityDTO, 0, len(acts))
	for _, a := range acts {
		result = append(result, activityDTO{
			ID:             a.ExternalID,
			Name:           a.Name,
			Type:           a.Type,
			StartDate:      a.StartDate,
			DistanceMeters: a.DistanceMeters,
			MovingTime:     a.MovingTimeSeconds,
			ElapsedTime:    a.ElapsedTimeSeconds,
		})
	}

	writeJSON(w, http.StatusOK, result)
}

// deriveForUser loads the user's activities and computes per-activity
// metrics for the stats handlers.
func (s *HTTPServer) deriveForUser(w http.ResponseWriter, r *http.Request) ([]metrics.ActivityMetrics, bool) {
	ctx := r.Context()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing token")
		return nil, false
	}

	acts, err := s.acts.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}

	return metrics.Derive(acts), true
}

func (s *HTTPServer) handleStatsSummary(w http.ResponseWriter, r *http.Request) {
	ms, ok := s.deriveForUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, metrics.Summarize(ms))
}

func (s *HTTPServer) handleStatsWeekly(w http.ResponseWriter, r *http.Request) {
	ms, ok := s.deriveForUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, metrics.Weekly(ms))
}

func (s *HTTPServer) handleStatsMonthly(w http.ResponseWriter, r *http.Request) {
	ms, ok := s.deriveForUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, metrics.Monthly(ms))
}

func (s *HTTPServer) handleStatsTypes(w http.ResponseWriter, r *http.Request) {
	ms, ok := s.deriveForUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, metrics.ByType(ms))
}

func (s *HTTPServer) handleStatsWeekdays(w http.ResponseWriter, r *http.Request) {
	ms, ok := s.deriveForUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, metrics.ByWeekday(ms))
}

// handleUsers lists the ids of all users with a stored credential. It is
// reachable without a session so a UI can offer known accounts before the
// OAuth flow runs.
func (s *HTTPServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := s.creds.ListUserIDs(ctx)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]int64{"user_ids": ids})
}
