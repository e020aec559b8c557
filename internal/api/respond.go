package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docchat/internal/render"
	"github.com/dgallion1/docchat/internal/session"
)

// sessionResponse is returned by every operation that can change a transcript.
type sessionResponse struct {
	SessionID string           `json:"session_id"`
	State     session.State    `json:"state"`
	Reply     string           `json:"reply,omitempty"`
	Reset     bool             `json:"reset"`
	Sent      int              `json:"sent"`
	Total     int              `json:"total"`
	Messages  []render.Message `json:"messages"`
}

func (s *Server) respondSession(w http.ResponseWriter, code int, sess *session.Session, res session.Result) {
	writeJSON(w, code, sessionResponse{
		SessionID: sess.ID,
		State:     sess.State(),
		Reply:     res.Reply,
		Reset:     res.Reset,
		Sent:      res.Sent,
		Total:     res.Total,
		Messages:  s.render.Messages(s.driver.Replay(sess)),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
