package server

import (
	"errors"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"

	"github.com/hay-kot/nowcard/internal/core/card"
	"github.com/hay-kot/nowcard/internal/core/validate"
	"github.com/hay-kot/nowcard/internal/lanyard"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// cardResponse is the JSON body of /api/card.
type cardResponse struct {
	card.Card
	Lines []string `json:"lines"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleCardJSON(w http.ResponseWriter, r *http.Request) {
	c, status, err := s.buildCard(r)
	if err != nil {
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, cardResponse{Card: c, Lines: c.Lines()})
}

func (s *Server) handleCardText(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	c, status, err := s.buildCard(r)
	if err != nil {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(err.Error() + "\n"))
		return
	}

	_, _ = w.Write([]byte(c.String()))
}

// buildCard resolves the card for the user_id and url query parameters,
// falling back to the configured user and link.
func (s *Server) buildCard(r *http.Request) (card.Card, int, error) {
	query := r.URL.Query()

	userID := query.Get("user_id")
	if userID == "" {
		userID = s.cfg.UserID
	}
	if userID == "" {
		return card.Card{}, http.StatusBadRequest, errors.New(missingUserHint(r))
	}
	if err := validate.UserID(userID); err != nil {
		return card.Card{}, http.StatusBadRequest, err
	}

	snap, err := s.snapshot(r.Context(), userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("fetch presence failed")
		if errors.Is(err, lanyard.ErrUserNotMonitored) {
			return card.Card{}, http.StatusNotFound, err
		}
		return card.Card{}, http.StatusBadGateway, errors.New("presence feed unavailable")
	}

	opts := s.cfg.CardOptions()
	if fallback := query.Get("url"); fallback != "" {
		opts.FallbackURL = fallback
	}

	c := card.New(snap, s.now(), opts)
	s.metrics.ObserveCard(c)

	return c, http.StatusOK, nil
}

func missingUserHint(r *http.Request) string {
	u := url.URL{Scheme: "http", Host: r.Host, Path: r.URL.Path}
	if r.TLS != nil {
		u.Scheme = "https"
	}
	return "need to include a user_id in the url like so: " + u.String() + "?user_id=3474873838384874"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
