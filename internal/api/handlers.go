package api

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Timmyway/scan-text/internal/batch"
	"github.com/Timmyway/scan-text/pkg/document"
	"github.com/Timmyway/scan-text/pkg/extractor"
	"github.com/Timmyway/scan-text/pkg/preprocess"
)

// Handlers contains the HTTP handlers for the API
type Handlers struct {
	engine *extractor.Engine
	runner *batch.Runner
}

// NewHandlers creates a new handlers instance
func NewHandlers(engine *extractor.Engine, runner *batch.Runner) *Handlers {
	return &Handlers{
		engine: engine,
		runner: runner,
	}
}

// Health returns the service health status
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "scan-text",
		"version":   "0.1.0",
		"timestamp": time.Now().UTC(),
	})
}

// ExtractResponse represents the response for a single-image extraction
type ExtractResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// ExtractImage recognizes text in one uploaded image and returns it
func (h *Handlers) ExtractImage(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "No file uploaded or invalid file format",
			"details": err.Error(),
		})
	}

	const maxFileSize = 50 * 1024 * 1024 // 50MB
	if file.Size > maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File too large: maximum size is 50MB",
		})
	}

	ext := filepath.Ext(file.Filename)
	if !h.engine.Supported(strings.TrimPrefix(ext, ".")) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unsupported file extension: " + ext,
		})
	}

	mode, err := preprocess.ParseMode(c.FormValue("preprocess"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid preprocess mode",
			"details": err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Cannot read uploaded file",
			"details": err.Error(),
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Cannot read uploaded file",
			"details": err.Error(),
		})
	}

	text, _, err := h.engine.Extract(c.Context(), content, ext, mode)
	if err != nil {
		log.Error().Err(err).Str("filename", file.Filename).Msg("Extraction failed")
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error":   "Extraction failed",
			"details": err.Error(),
		})
	}

	return c.JSON(ExtractResponse{
		ID:       uuid.New().String(),
		Filename: file.Filename,
		Text:     text,
	})
}

// BatchRequest represents a folder batch run request
type BatchRequest struct {
	InputDir     string `json:"input_dir"`
	OutputDir    string `json:"output_dir"`
	CombinedPath string `json:"combined_path"`
	Preprocess   string `json:"preprocess"`
	Parallel     bool   `json:"parallel"`
	Combine      bool   `json:"combine"`
	Strict       bool   `json:"strict"`
	Clean        bool   `json:"clean"`
	SkipSave     bool   `json:"skip_save"`
}

// RunBatch processes every supported file in a folder and returns the report
func (h *Handlers) RunBatch(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}
	if req.InputDir == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "input_dir is required",
		})
	}

	mode, err := preprocess.ParseMode(req.Preprocess)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid preprocess mode",
			"details": err.Error(),
		})
	}

	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = "ocr_results"
	}

	report, err := h.runner.Run(c.Context(), batch.Options{
		InputDir:     req.InputDir,
		OutputDir:    outputDir,
		CombinedPath: req.CombinedPath,
		Mode:         mode,
		Parallel:     req.Parallel,
		Combine:      req.Combine,
		Strict:       req.Strict,
		Clean:        req.Clean,
		SkipSave:     req.SkipSave,
	})
	if err != nil {
		log.Error().Err(err).Str("input_dir", req.InputDir).Msg("Batch run failed")
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"error":   "Batch run failed",
			"details": err.Error(),
		})
	}

	return c.JSON(report)
}

// statusForError maps the pipeline error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	var notFound *document.NotFoundError
	var invalid *document.InvalidArgumentError
	var noText *document.NoTextError
	switch {
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest
	case errors.As(err, &noText):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}
