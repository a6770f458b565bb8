package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/adapters/secondary/export"
	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// Error codes returned in ErrorResponse.Code
const (
	codeInvalidInput      = "invalid_input"
	codeGenerationFailure = "generation_failure"
	codeNotFound          = "not_found"
	codeExportFailure     = "export_failure"
	codeSessionFailure    = "session_failure"
	codeUnavailable       = "unavailable"
)

const (
	msgInvalidPrompt    = "Prompt is required and must be a string"
	msgInvalidDeck      = "slideJson must be a list of slides"
	msgGenerationFailed = "Failed to generate slides"
	msgGenerated        = "Slides generated successfully"
)

var (
	sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)
	nonSlugChars     = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// ErrorResponse is the body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// GenerateResponse is the body of a successful generate call
type GenerateResponse struct {
	Slides  entities.Deck `json:"slides"`
	Message string        `json:"message"`
}

// SessionResponse describes a stored session
type SessionResponse struct {
	SessionID string        `json:"sessionId"`
	Slides    entities.Deck `json:"slides,omitempty"`
}

// TemplateBucketResponse lists one catalog bucket
type TemplateBucketResponse struct {
	Name      string                   `json:"name"`
	Keywords  []string                 `json:"keywords"`
	Templates []entities.SlideTemplate `json:"templates"`
}

// generateRequest keeps the prompt raw so a non-string prompt is reported as
// invalid input rather than a decode failure
type generateRequest struct {
	Prompt    json.RawMessage `json:"prompt"`
	SlideJSON json.RawMessage `json:"slideJson"`
}

func (req generateRequest) prompt() (string, bool) {
	var prompt string
	if len(req.Prompt) == 0 || json.Unmarshal(req.Prompt, &prompt) != nil || prompt == "" {
		return "", false
	}
	return prompt, true
}

func (req generateRequest) deck() (entities.Deck, error) {
	if len(req.SlideJSON) == 0 || string(req.SlideJSON) == "null" {
		return nil, nil
	}
	var deck entities.Deck
	if err := json.Unmarshal(req.SlideJSON, &deck); err != nil {
		return nil, err
	}
	return deck, nil
}

type exportRequest struct {
	Format       string        `json:"format"`
	Slides       entities.Deck `json:"slides"`
	IncludeNotes bool          `json:"include_notes"`
	Title        string        `json:"title"`
	PageSize     string        `json:"page_size,omitempty"`
	Quality      string        `json:"quality,omitempty"`
}

// handleGenerate generates a fresh deck or edits the caller's deck. With an
// X-Session-ID header the stored deck is used when slideJson is absent, and
// the result is stored and pushed to the session's websocket clients.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	start := s.clock.Now()

	var req generateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.observeGenerate("", outcomeInvalidInput, start)
		s.writeError(w, http.StatusBadRequest, msgInvalidPrompt, codeInvalidInput)
		return
	}

	prompt, ok := req.prompt()
	if !ok {
		s.observeGenerate("", outcomeInvalidInput, start)
		s.writeError(w, http.StatusBadRequest, msgInvalidPrompt, codeInvalidInput)
		return
	}

	existing, err := req.deck()
	if err != nil {
		s.observeGenerate("", outcomeInvalidInput, start)
		s.writeError(w, http.StatusBadRequest, msgInvalidDeck, codeInvalidInput)
		return
	}

	sessionID, ok := s.sessionFromHeader(w, r)
	if !ok {
		return
	}

	if existing == nil && sessionID != "" {
		existing = s.loadSessionDeck(r, sessionID)
	}

	result, err := s.decks.Generate(r.Context(), ports.GenerateRequest{Prompt: prompt, Existing: existing})
	if err != nil {
		if errors.Is(err, entities.ErrInvalidInput) {
			s.observeGenerate("", outcomeInvalidInput, start)
			s.writeError(w, http.StatusBadRequest, msgInvalidPrompt, codeInvalidInput)
			return
		}
		s.observeGenerate("", outcomeFailure, start)
		s.logger.Error("generation failed", zap.String("prompt", prompt), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, msgGenerationFailed, codeGenerationFailure)
		return
	}

	s.observeGenerate(string(result.Mode), outcomeSuccess, start)

	if sessionID != "" {
		if err := s.store.Save(r.Context(), sessionID, result.Slides); err != nil {
			s.logger.Warn("storing session deck failed", zap.String("session_id", sessionID), zap.Error(err))
		} else {
			s.publish(ports.UpdateEvent{
				Type:      ports.EventTypeDeckUpdated,
				SessionID: sessionID,
				Data: map[string]interface{}{
					"mode":   result.Mode,
					"action": result.Action,
					"slides": result.Slides,
				},
			})
		}
	}

	s.writeJSON(w, http.StatusOK, GenerateResponse{Slides: result.Slides, Message: msgGenerated})
}

// loadSessionDeck returns the stored deck or nil when there is none
func (s *Server) loadSessionDeck(r *http.Request, sessionID string) entities.Deck {
	deck, err := s.store.Load(r.Context(), sessionID)
	if err != nil {
		if !errors.Is(err, entities.ErrSessionNotFound) {
			s.logger.Warn("loading session deck failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		return nil
	}
	return deck
}

// handleExport renders the posted deck and streams the file back
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Export service not available", codeUnavailable)
		return
	}

	var req exportRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", codeInvalidInput)
		return
	}

	sessionID, ok := s.sessionFromHeader(w, r)
	if !ok {
		return
	}

	deck := req.Slides
	if len(deck) == 0 && sessionID != "" {
		deck = s.loadSessionDeck(r, sessionID)
	}

	if len(deck) == 0 {
		s.exportOutcome(req.Format, outcomeInvalidInput)
		s.writeError(w, http.StatusBadRequest, "slides are required", codeInvalidInput)
		return
	}

	result, err := s.exporter.Export(r.Context(), deck, ports.ExportRequest{
		Format:       req.Format,
		Title:        req.Title,
		IncludeNotes: req.IncludeNotes,
		PageSize:     req.PageSize,
		Quality:      req.Quality,
	})
	if err != nil {
		s.handleExportError(w, req.Format, err)
		return
	}
	defer removeExportDir(result.OutputPath)

	s.exportOutcome(result.Format, outcomeSuccess)

	file, err := os.Open(result.OutputPath)
	if err != nil {
		s.logger.Error("opening export failed", zap.String("path", result.OutputPath), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to export presentation", codeExportFailure)
		return
	}
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		s.logger.Error("export is not a file", zap.String("path", result.OutputPath), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to export presentation", codeExportFailure)
		return
	}

	ext := filepath.Ext(result.OutputPath)
	contentType := result.MimeType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	name := downloadName(req.Title, ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("X-Export-Warnings", strconv.Itoa(len(result.Warnings)))

	for _, warning := range result.Warnings {
		s.logger.Debug("export warning", zap.String("format", result.Format), zap.String("warning", warning))
	}

	http.ServeContent(w, r, name, info.ModTime(), file)
}

func (s *Server) handleExportError(w http.ResponseWriter, format string, err error) {
	var exportErr *export.ExportError
	if errors.As(err, &exportErr) && exportErr.Type == export.ErrorTypeValidation {
		s.exportOutcome(format, outcomeInvalidInput)
		s.writeError(w, http.StatusBadRequest, exportErr.Message, codeInvalidInput)
		return
	}

	if errors.Is(err, entities.ErrInvalidInput) {
		s.exportOutcome(format, outcomeInvalidInput)
		s.writeError(w, http.StatusBadRequest, "Invalid export request", codeInvalidInput)
		return
	}

	s.exportOutcome(format, outcomeFailure)
	s.logger.Error("export failed", zap.String("format", format), zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "Failed to export presentation", codeExportFailure)
}

// handleExportFormats returns available export formats
func (s *Server) handleExportFormats(w http.ResponseWriter, _ *http.Request) {
	if s.exporter == nil {
		s.writeError(w, http.StatusServiceUnavailable, "Export service not available", codeUnavailable)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"formats": s.exporter.SupportedFormats(),
		"options": map[string]interface{}{
			"qualities":  []string{"low", "medium", "high"},
			"page_sizes": []string{"A4", "Letter", "Legal", "A3"},
		},
	})
}

// handleCreateSession allocates a session id for X-Session-ID
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusCreated, SessionResponse{SessionID: uuid.New().String()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, deck, ok := s.sessionDeck(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, SessionResponse{SessionID: sessionID, Slides: deck})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	if !sessionIDPattern.MatchString(sessionID) {
		s.writeError(w, http.StatusBadRequest, "Invalid session id", codeInvalidInput)
		return
	}

	if err := s.store.Delete(r.Context(), sessionID); err != nil {
		s.logger.Error("deleting session failed", zap.String("session_id", sessionID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to delete session", codeSessionFailure)
		return
	}

	s.publish(ports.UpdateEvent{Type: ports.EventTypeSessionDeleted, SessionID: sessionID})
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionPreview renders the stored deck as sanitized HTML. Pass
// notes=true to include speaker notes.
func (s *Server) handleSessionPreview(w http.ResponseWriter, r *http.Request) {
	_, deck, ok := s.sessionDeck(w, r)
	if !ok {
		return
	}

	includeNotes, _ := strconv.ParseBool(r.URL.Query().Get("notes"))

	title := deck.Title()
	if title == "" {
		title = export.DefaultTitle
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.preview.WriteDocument(w, deck, title, includeNotes); err != nil {
		s.logger.Error("rendering preview failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to render preview", codeExportFailure)
	}
}

// sessionDeck loads the deck named by the {id} route variable and writes
// the error response itself when that fails
func (s *Server) sessionDeck(w http.ResponseWriter, r *http.Request) (string, entities.Deck, bool) {
	sessionID := mux.Vars(r)["id"]
	if !sessionIDPattern.MatchString(sessionID) {
		s.writeError(w, http.StatusBadRequest, "Invalid session id", codeInvalidInput)
		return "", nil, false
	}

	deck, err := s.store.Load(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, entities.ErrSessionNotFound) {
			s.writeError(w, http.StatusNotFound, "Session not found", codeNotFound)
			return "", nil, false
		}
		s.logger.Error("loading session failed", zap.String("session_id", sessionID), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "Failed to load session", codeSessionFailure)
		return "", nil, false
	}

	return sessionID, deck, true
}

// sessionFromHeader returns the X-Session-ID value, writing a 400 when it is
// malformed
func (s *Server) sessionFromHeader(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
	if sessionID == "" {
		return "", true
	}
	if !sessionIDPattern.MatchString(sessionID) {
		s.writeError(w, http.StatusBadRequest, "Invalid session id", codeInvalidInput)
		return "", false
	}
	return sessionID, true
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	buckets := s.catalog.Buckets()
	response := make([]TemplateBucketResponse, len(buckets))
	for i, b := range buckets {
		keywords := b.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		response[i] = TemplateBucketResponse{Name: b.Name, Keywords: keywords, Templates: b.Templates}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"buckets": response})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"time":              s.clock.Now().UTC(),
		"websocket_clients": s.connMgr.Count(),
	})
}

// decodeJSON decodes a size-limited request body into dst
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.GetMaxBodyBytes())
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.logger.Debug("invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
		return fmt.Errorf("%w: %w", entities.ErrInvalidInput, err)
	}
	return nil
}

// writeError writes an ErrorResponse with status
func (s *Server) writeError(w http.ResponseWriter, status int, message, code string) {
	s.writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

func (s *Server) observeGenerate(mode, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	if mode == "" {
		mode = "unknown"
	}
	s.metrics.ObserveGenerate(mode, outcome, s.clock.Since(start))
}

// exportOutcome counts an export, folding unknown formats into one label
func (s *Server) exportOutcome(format, outcome string) {
	if s.metrics == nil {
		return
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "default"
	} else if !slices.Contains(s.exporter.SupportedFormats(), format) {
		format = "unknown"
	}
	s.metrics.ObserveExport(format, outcome)
}

// downloadName derives the attachment file name from the deck title
func downloadName(title, ext string) string {
	slug := strings.Trim(nonSlugChars.ReplaceAllString(title, "-"), "-")
	if slug == "" {
		slug = export.DefaultBaseName
	}
	return slug + ext
}

// removeExportDir deletes the per-export directory the export service
// creates when no output path is given
func removeExportDir(outputPath string) {
	dir := filepath.Dir(outputPath)
	if strings.HasPrefix(filepath.Base(dir), "export-") {
		_ = os.RemoveAll(dir)
	}
}
