package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/jeefy/prayerjournal/internal/models"
	"github.com/jeefy/prayerjournal/internal/people"
	"github.com/jeefy/prayerjournal/internal/store"
)

const (
	peoplePath    = "/api/people"
	prayersPrefix = "/api/prayers/"

	maxBodyBytes = 1 << 20
)

// Options configures optional collaborators of the Server.
type Options struct {
	// PublicDir is the static root served for unmatched GETs. Empty disables
	// static serving; those requests get a bare 404.
	PublicDir string
	// Logger receives access and error lines. Defaults to log.Default().
	Logger *log.Logger
}

type Server struct {
	store   store.Store
	people  *people.Registry
	static  *staticFiles
	logger  *log.Logger
	handler http.Handler
}

type createPrayerRequest struct {
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
}

type personResponse struct {
	models.Person
	PrayerCount int `json:"prayerCount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(st store.Store, reg *people.Registry, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:  st,
		people: reg,
		logger: logger,
	}
	if strings.TrimSpace(opts.PublicDir) != "" {
		s.static = newStaticFiles(opts.PublicDir)
	}
	s.handler = s.withRequestLog(withCORS(http.HandlerFunc(s.dispatch)))
	return s
}

func (s *Server) Router() http.Handler { return s.handler }

// dispatch routes by method, then by path prefix. Paths are matched as sent;
// no cleaning or redirects happen before the static root check.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch r.Method {
	case http.MethodGet:
		switch {
		case path == peoplePath:
			s.handleListPeople(w, r)
		case strings.HasPrefix(path, prayersPrefix):
			s.handleListPrayers(w, r, strings.TrimPrefix(path, prayersPrefix))
		default:
			s.serveStatic(w, r)
		}
	case http.MethodPost:
		if strings.HasPrefix(path, prayersPrefix) {
			s.handleCreatePrayer(w, r, strings.TrimPrefix(path, prayersPrefix))
			return
		}
		writeError(w, http.StatusNotFound, "Not found")
	case http.MethodOptions:
		handlePreflight(w)
	default:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// GET /api/people
func (s *Server) handleListPeople(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountByPerson(r.Context())
	if err != nil {
		s.internalError(w, r, "count prayers", err)
		return
	}
	list := s.people.List()
	out := make([]personResponse, 0, len(list))
	for _, p := range list {
		out = append(out, personResponse{Person: p, PrayerCount: counts[p.Name]})
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /api/prayers/{name}
// Unknown names are not rejected; they simply have no prayers.
func (s *Server) handleListPrayers(w http.ResponseWriter, r *http.Request, name string) {
	prayers, err := s.store.ListByPerson(r.Context(), name)
	if err != nil {
		s.internalError(w, r, "list prayers", err)
		return
	}
	if prayers == nil {
		prayers = []models.Prayer{}
	}
	writeJSON(w, http.StatusOK, prayers)
}

// POST /api/prayers/{name}
func (s *Server) handleCreatePrayer(w http.ResponseWriter, r *http.Request, name string) {
	req, err := decodeCreatePrayer(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	author := strings.TrimSpace(req.AuthorName)
	content := strings.TrimSpace(req.Content)
	if author == "" || content == "" {
		writeError(w, http.StatusBadRequest, "author_name and content are required")
		return
	}
	if !s.people.Has(name) {
		writeError(w, http.StatusNotFound, "Person not found")
		return
	}
	prayer, err := s.store.Insert(r.Context(), name, author, content)
	if err != nil {
		s.internalError(w, r, "insert prayer", err)
		return
	}
	writeJSON(w, http.StatusCreated, prayer)
}

// decodeCreatePrayer accepts an empty body as {} and leaves absent fields
// empty. Anything but a single JSON object is rejected.
func decodeCreatePrayer(body io.Reader) (createPrayerRequest, error) {
	var req createPrayerRequest
	raw, err := io.ReadAll(body)
	if err != nil {
		return req, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return req, nil
	}
	if raw[0] != '{' {
		return req, errors.New("body is not a JSON object")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&req); err != nil {
		return req, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return req, errors.New("trailing data after JSON object")
	}
	return req, nil
}

// OPTIONS *
func handlePreflight(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) serveStatic(w http.ResponseWriter, r *http.Request) {
	if s.static == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.static.serve(w, r)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Printf("request %s: %s: %v", requestIDFrom(r.Context()), op, err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
