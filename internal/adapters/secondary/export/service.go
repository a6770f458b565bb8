package export

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fredcamaral/promptdeck/internal/domain/entities"
	"github.com/fredcamaral/promptdeck/internal/domain/ports"
)

// ExportFormat represents different export formats
type ExportFormat string

const (
	FormatPowerPoint ExportFormat = "pptx"
	FormatPDF        ExportFormat = "pdf"
	FormatHTML       ExportFormat = "html"
	FormatMarkdown   ExportFormat = "markdown"
	FormatImages     ExportFormat = "images"
)

// DefaultBaseName is the file name, without extension, of exports that do
// not name an output path
const DefaultBaseName = "AI-Slides-Presentation"

// DefaultTitle is used when neither the request nor the deck carries a title
const DefaultTitle = "AI Slides Presentation"

// ExportOptions is what a renderer needs to write one deck
type ExportOptions struct {
	Format       ExportFormat
	OutputPath   string
	Title        string
	IncludeNotes bool
	PageSize     string // A4, Letter, Legal, A3
	Quality      string // low, medium, high

	// scratchDir is the export-* directory created for a request without an
	// output path; it is removed again when the export fails
	scratchDir string
}

// RenderResult is what a renderer reports back
type RenderResult struct {
	OutputPath string
	FileSize   int64
	Files      []string // For multi-file exports
	Warnings   []string // Per-slide problems that did not abort the export
}

// Renderer writes a deck in one format
type Renderer interface {
	Render(ctx context.Context, deck entities.Deck, options *ExportOptions) (*RenderResult, error)
	Supports(format ExportFormat) bool
	GetMimeType() string
	Extension() string
}

// ExportErrorType categorizes different types of export errors
type ExportErrorType string

const (
	ErrorTypeValidation    ExportErrorType = "validation"
	ErrorTypeRenderer      ExportErrorType = "renderer"
	ErrorTypeFilesystem    ExportErrorType = "filesystem"
	ErrorTypeTimeout       ExportErrorType = "timeout"
	ErrorTypeMemory        ExportErrorType = "memory"
	ErrorTypeConfiguration ExportErrorType = "configuration"
)

// ExportError provides detailed error information with categorization
type ExportError struct {
	Type      ExportErrorType `json:"type"`
	Message   string          `json:"message"`
	Details   string          `json:"details,omitempty"`
	Code      string          `json:"code,omitempty"`
	Retryable bool            `json:"retryable"`
	Cause     error           `json:"-"`
}

func (e *ExportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s error: %s - %s", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// RetryConfig defines retry behavior for export operations
type RetryConfig struct {
	MaxRetries      int               `json:"max_retries"`
	InitialDelay    time.Duration     `json:"initial_delay"`
	MaxDelay        time.Duration     `json:"max_delay"`
	BackoffFactor   float64           `json:"backoff_factor"`
	RetryableErrors []ExportErrorType `json:"retryable_errors"`
}

// DefaultRetryConfig retries transient resource failures a few times
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    2,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
		RetryableErrors: []ExportErrorType{
			ErrorTypeTimeout,
			ErrorTypeMemory,
		},
	}
}

// Service implements ports.DeckExporter
type Service struct {
	renderers   map[ExportFormat]Renderer
	cfg         entities.ExportConfig
	retryConfig RetryConfig
	clock       ports.TimeProvider
	logger      *zap.Logger
}

// NewService creates an export service with every built-in renderer
// registered
func NewService(cfg entities.ExportConfig, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	outputDir := cfg.GetOutputDir()
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return nil, &ExportError{
			Type:    ErrorTypeFilesystem,
			Message: "failed to create output directory",
			Details: outputDir,
			Code:    "MKDIR_FAILED",
			Cause:   err,
		}
	}

	images, err := NewImageRenderer()
	if err != nil {
		return nil, fmt.Errorf("initializing image renderer: %w", err)
	}

	service := &Service{
		renderers:   make(map[ExportFormat]Renderer),
		cfg:         cfg,
		retryConfig: DefaultRetryConfig(),
		clock:       ports.NewRealTimeProvider(),
		logger:      logger.Named("export"),
	}

	service.RegisterRenderer(FormatPowerPoint, NewPPTXRenderer())
	service.RegisterRenderer(FormatPDF, NewPDFRenderer())
	service.RegisterRenderer(FormatHTML, NewHTMLRenderer())
	service.RegisterRenderer(FormatMarkdown, NewMarkdownRenderer())
	service.RegisterRenderer(FormatImages, images)

	return service, nil
}

// RegisterRenderer registers a renderer for a specific format
func (s *Service) RegisterRenderer(format ExportFormat, renderer Renderer) {
	s.renderers[format] = renderer
}

// SetRetryConfig updates the retry configuration
func (s *Service) SetRetryConfig(config RetryConfig) {
	s.retryConfig = config
}

// SupportedFormats returns the registered formats in sorted order
func (s *Service) SupportedFormats() []string {
	formats := make([]string, 0, len(s.renderers))
	for format := range s.renderers {
		formats = append(formats, string(format))
	}
	sort.Strings(formats)
	return formats
}

// MimeType returns the MIME type of format, or "" when unsupported
func (s *Service) MimeType(format string) string {
	if renderer, ok := s.renderers[ExportFormat(format)]; ok {
		return renderer.GetMimeType()
	}
	return ""
}

// DefaultFileName returns the download name used for format
func (s *Service) DefaultFileName(format string) string {
	if renderer, ok := s.renderers[ExportFormat(format)]; ok {
		return DefaultBaseName + renderer.Extension()
	}
	return DefaultBaseName
}

// Export writes deck in the requested format. A per-slide image problem is
// reported as a warning and never aborts the export.
func (s *Service) Export(ctx context.Context, deck entities.Deck, req ports.ExportRequest) (*ports.ExportResult, error) {
	start := s.clock.Now()

	options, renderer, err := s.prepare(deck, req)
	if err != nil {
		return nil, err
	}

	if err := s.ensureOutputDirectory(options.OutputPath); err != nil {
		s.discardScratch(options)
		return nil, err
	}

	rendered, err := s.executeWithRetry(ctx, renderer, deck, options)
	if err != nil {
		s.logger.Warn("export failed",
			zap.String("format", string(options.Format)),
			zap.Error(err),
		)
		s.discardScratch(options)
		return nil, err
	}

	for _, warning := range rendered.Warnings {
		s.logger.Warn("export warning", zap.String("format", string(options.Format)), zap.String("warning", warning))
	}

	result := &ports.ExportResult{
		Format:      string(options.Format),
		OutputPath:  rendered.OutputPath,
		MimeType:    renderer.GetMimeType(),
		FileSize:    rendered.FileSize,
		SlideCount:  len(deck),
		Files:       rendered.Files,
		Warnings:    rendered.Warnings,
		Duration:    s.clock.Since(start),
		GeneratedAt: s.clock.Now(),
	}

	s.logger.Debug("exported deck",
		zap.String("format", result.Format),
		zap.String("path", result.OutputPath),
		zap.Int64("bytes", result.FileSize),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

// discardScratch removes the directory prepare created for a failed export
func (s *Service) discardScratch(options *ExportOptions) {
	if options.scratchDir == "" {
		return
	}
	if err := os.RemoveAll(options.scratchDir); err != nil {
		s.logger.Warn("removing export directory failed", zap.String("dir", options.scratchDir), zap.Error(err))
	}
}

// prepare validates the request and resolves defaults
func (s *Service) prepare(deck entities.Deck, req ports.ExportRequest) (*ExportOptions, Renderer, error) {
	if err := deck.Validate(); err != nil {
		return nil, nil, &ExportError{
			Type:    ErrorTypeValidation,
			Message: "invalid deck",
			Details: err.Error(),
			Code:    "INVALID_DECK",
			Cause:   fmt.Errorf("%w: %w", entities.ErrInvalidInput, err),
		}
	}

	format := ExportFormat(strings.ToLower(strings.TrimSpace(req.Format)))
	if format == "" {
		format = ExportFormat(s.cfg.GetDefaultFormat())
	}
	if format == "md" {
		format = FormatMarkdown
	}

	renderer, exists := s.renderers[format]
	if !exists {
		return nil, nil, &ExportError{
			Type:    ErrorTypeConfiguration,
			Message: "unsupported export format",
			Details: string(format),
			Code:    "UNSUPPORTED_FORMAT",
			Cause:   entities.ErrInvalidInput,
		}
	}

	options := &ExportOptions{
		Format:       format,
		OutputPath:   req.OutputPath,
		Title:        req.Title,
		IncludeNotes: req.IncludeNotes || s.cfg.IncludeNotes,
		PageSize:     req.PageSize,
		Quality:      req.Quality,
	}

	if options.Title == "" {
		options.Title = deck.Title()
	}
	if options.Title == "" {
		options.Title = DefaultTitle
	}
	if options.PageSize == "" {
		options.PageSize = s.cfg.GetPageSize()
	}
	if options.Quality == "" {
		options.Quality = s.cfg.ImageQuality
	}

	if err := validateOptions(options); err != nil {
		return nil, nil, err
	}

	if options.OutputPath == "" {
		dir, err := os.MkdirTemp(s.cfg.GetOutputDir(), "export-*")
		if err != nil {
			return nil, nil, &ExportError{
				Type:    ErrorTypeFilesystem,
				Message: "failed to create export directory",
				Details: s.cfg.GetOutputDir(),
				Code:    "MKDIR_FAILED",
				Cause:   err,
			}
		}
		options.OutputPath = filepath.Join(dir, DefaultBaseName+renderer.Extension())
		options.scratchDir = dir
	}

	return options, renderer, nil
}

// validateOptions checks option values a renderer relies on
func validateOptions(options *ExportOptions) error {
	if options.Quality != "" {
		switch options.Quality {
		case "low", "medium", "high":
		default:
			return &ExportError{
				Type:    ErrorTypeValidation,
				Message: "invalid quality setting",
				Details: options.Quality + " (must be low, medium, or high)",
				Code:    "INVALID_QUALITY",
				Cause:   entities.ErrInvalidInput,
			}
		}
	}

	switch options.PageSize {
	case "A4", "Letter", "Legal", "A3":
	default:
		return &ExportError{
			Type:    ErrorTypeValidation,
			Message: "invalid page size",
			Details: options.PageSize + " (must be A4, Letter, Legal, or A3)",
			Code:    "INVALID_PAGE_SIZE",
			Cause:   entities.ErrInvalidInput,
		}
	}

	return nil
}

// ensureOutputDirectory ensures the output directory exists
func (s *Service) ensureOutputDirectory(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &ExportError{
			Type:    ErrorTypeFilesystem,
			Message: "failed to create output directory",
			Details: dir,
			Code:    "MKDIR_FAILED",
			Cause:   err,
		}
	}
	return nil
}

// executeWithRetry executes the export with retry logic
func (s *Service) executeWithRetry(ctx context.Context, renderer Renderer, deck entities.Deck, options *ExportOptions) (*RenderResult, error) {
	var lastErr error

	for attempt := 0; attempt <= s.retryConfig.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.calculateBackoffDelay(attempt)):
			case <-ctx.Done():
				return nil, &ExportError{
					Type:    ErrorTypeTimeout,
					Message: "export cancelled during retry",
					Code:    "CANCELLED",
					Cause:   ctx.Err(),
				}
			}
		}

		result, err := renderer.Render(ctx, deck, options)
		if err == nil {
			return result, nil
		}

		lastErr = err
		exportErr := categorizeError(err)
		if !s.isRetryableError(exportErr) {
			break
		}

		s.logger.Debug("retrying export",
			zap.Int("attempt", attempt+1),
			zap.String("reason", exportErr.Message),
		)
	}

	return nil, categorizeError(lastErr)
}

// calculateBackoffDelay calculates the delay for exponential backoff
func (s *Service) calculateBackoffDelay(attempt int) time.Duration {
	delay := float64(s.retryConfig.InitialDelay) * math.Pow(s.retryConfig.BackoffFactor, float64(attempt-1))
	if delay > float64(s.retryConfig.MaxDelay) {
		delay = float64(s.retryConfig.MaxDelay)
	}
	return time.Duration(delay)
}

// isRetryableError checks if an error is retryable
func (s *Service) isRetryableError(err error) bool {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		for _, retryableType := range s.retryConfig.RetryableErrors {
			if exportErr.Type == retryableType {
				return exportErr.Retryable
			}
		}
	}
	return false
}

// categorizeError categorizes an error into an ExportError
func categorizeError(err error) *ExportError {
	if err == nil {
		return nil
	}

	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr
	}

	errMsg := err.Error()

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return &ExportError{
			Type:    ErrorTypeTimeout,
			Message: "export cancelled",
			Details: errMsg,
			Code:    "CANCELLED",
			Cause:   err,
		}
	case strings.Contains(errMsg, "timeout"):
		return &ExportError{
			Type:      ErrorTypeTimeout,
			Message:   "operation timed out",
			Details:   errMsg,
			Code:      "TIMEOUT",
			Retryable: true,
			Cause:     err,
		}
	case strings.Contains(errMsg, "out of memory"):
		return &ExportError{
			Type:      ErrorTypeMemory,
			Message:   "insufficient memory",
			Details:   errMsg,
			Code:      "OUT_OF_MEMORY",
			Retryable: true,
			Cause:     err,
		}
	case errors.Is(err, os.ErrPermission) || strings.Contains(errMsg, "permission denied"):
		return &ExportError{
			Type:    ErrorTypeFilesystem,
			Message: "file access denied",
			Details: errMsg,
			Code:    "ACCESS_DENIED",
			Cause:   err,
		}
	default:
		return &ExportError{
			Type:    ErrorTypeRenderer,
			Message: "renderer error",
			Details: errMsg,
			Code:    "RENDERER_ERROR",
			Cause:   err,
		}
	}
}

// fileSize returns the size of a file in bytes, or 0 when it cannot be read
func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

var _ ports.DeckExporter = (*Service)(nil)
