package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/docchat/internal/session"
	"github.com/go-chi/chi/v5"
)

// lookupSession writes a 404 and returns false when the session is unknown.
func (s *Server) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if errors.Is(err, session.ErrNotFound) {
		jsonError(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	if err := s.driver.Open(r.Context(), sess); err != nil {
		s.sessions.Delete(sess.ID)
		s.log.Error("open session failed", "session_id", sess.ID, "error", err)
		jsonError(w, "failed to start conversation: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.respondSession(w, http.StatusCreated, sess, session.Result{})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	s.respondSession(w, http.StatusOK, sess, session.Result{})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		jsonError(w, "text is required", http.StatusBadRequest)
		return
	}

	res, err := s.driver.Submit(r.Context(), sess, req.Text)
	if err != nil {
		s.log.Error("message failed", "session_id", sess.ID, "error", err)
		jsonError(w, "model request failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.respondSession(w, http.StatusOK, sess, res)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	if err := s.driver.Reset(r.Context(), sess); err != nil {
		jsonError(w, "reset failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.respondSession(w, http.StatusOK, sess, session.Result{Reset: true})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}
	reset, err := s.driver.Resume(r.Context(), sess)
	if err != nil {
		jsonError(w, "resume failed: "+err.Error(), http.StatusBadGateway)
		return
	}
	s.respondSession(w, http.StatusOK, sess, session.Result{Reset: reset})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "sessionID")) {
		jsonError(w, "session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
