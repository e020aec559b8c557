package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docchat/internal/document"
	"github.com/dgallion1/docchat/internal/fetch"
	"github.com/dgallion1/docchat/internal/parser"
	"github.com/dgallion1/docchat/internal/session"
)

func (s *Server) parserOptions() parser.Options {
	return parser.Options{PDFFallbackPdftotext: s.cfg.PDFFallbackPdftotext}
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	p, err := parser.ForFile(filename, s.parserOptions())
	if err != nil {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		jsonError(w, "failed to extract text: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	doc.Origin = document.OriginUpload
	if title := strings.TrimSpace(r.FormValue("title")); title != "" {
		doc.Title = title
	}

	s.submitDocument(w, r, sess, doc)
}

func (s *Server) handleFetchDocument(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookupSession(w, r)
	if !ok {
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}

	res, err := s.fetcher.Fetch(r.Context(), req.URL)
	if err != nil {
		s.log.Warn("document fetch failed", "session_id", sess.ID, "url", req.URL, "error", err)
		var statusErr *fetch.StatusError
		switch {
		case errors.As(err, &statusErr):
			jsonError(w, fmt.Sprintf("document source returned status %d", statusErr.StatusCode), http.StatusBadGateway)
		case errors.Is(err, fetch.ErrTooLarge):
			jsonError(w, fmt.Sprintf("document exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		default:
			jsonError(w, "failed to fetch document: "+err.Error(), http.StatusBadGateway)
		}
		return
	}

	p, err := parser.ForResource(res.Filename, res.ContentType, s.parserOptions())
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnsupportedMediaType)
		return
	}
	doc, err := p.Parse(bytes.NewReader(res.Data), res.Filename)
	if err != nil {
		jsonError(w, "failed to extract text: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	doc.Origin = document.OriginURL
	doc.Source = res.URL
	if doc.Title == "" {
		doc.Title = res.URL
	}

	s.submitDocument(w, r, sess, doc)
}

func (s *Server) submitDocument(w http.ResponseWriter, r *http.Request, sess *session.Session, doc *document.Document) {
	res, err := s.driver.SubmitDocument(r.Context(), sess, doc)
	if errors.Is(err, session.ErrEmptyDocument) {
		jsonError(w, "nothing to submit: no text could be extracted", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		s.log.Error("document submission failed", "session_id", sess.ID, "sent", res.Sent, "total", res.Total, "error", err)
		jsonError(w, fmt.Sprintf("document submission failed after %d of %d parts: %v", res.Sent, res.Total, err), http.StatusBadGateway)
		return
	}
	s.respondSession(w, http.StatusOK, sess, res)
}
