package server

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"whisperd/internal/ingest"
	"whisperd/internal/logging"
	"whisperd/internal/model"
	"whisperd/internal/requestlog"
	"whisperd/internal/services"
)

type transcriptionResponse struct {
	Text     string          `json:"text"`
	Language string          `json:"language"`
	Segments []model.Segment `json:"segments"`
}

// handleTranscribe runs the admission-gated pipeline: acquire slot, ensure
// model ready, validate, ingest, normalize, transcribe. Outcome recording and
// the response write happen here so that every exit path, including busy
// rejections, produces exactly one log row.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	started := time.Now()
	ctx := r.Context()
	log := logging.WithContext(ctx, s.logger)

	entry := requestlog.Entry{
		CreatedAt: started,
		UserAgent: r.UserAgent(),
	}
	if host, ok := services.ClientHostFromContext(ctx); ok {
		entry.ClientHost = host
	}

	result, pipelineErr := s.runPipeline(r, &entry, log)

	status := services.HTTPStatus(pipelineErr)
	entry.Status = status
	entry.OK = status >= 200 && status < 300
	entry.DurationMS = time.Since(started).Milliseconds()

	if pipelineErr != nil {
		detail := services.Detail(pipelineErr)
		entry.ErrorDetail = detail
		log.Warn("transcription request failed",
			logging.Error(pipelineErr),
			logging.Int("status", status),
			logging.Duration("elapsed", time.Since(started)))
		s.writeError(w, status, detail)
	} else {
		if encoded, err := json.Marshal(result); err == nil {
			entry.ResponseJSON = string(encoded)
		}
		log.Info("transcription complete",
			logging.String("language", result.Language),
			logging.Int("segments", len(result.Segments)),
			logging.Int64("bytes", entry.SizeBytes),
			logging.Duration("elapsed", time.Since(started)))
		s.writeJSON(w, http.StatusOK, result)
	}

	s.recorder.Record(context.WithoutCancel(ctx), entry)
}

// runPipeline executes the gated stages in order, short-circuiting on the
// first failure. The slot, the multipart stream, and the scratch directory
// are all released by defers so a failure or panic at any stage cannot leak
// them. Stages past admission run on a context detached from the client
// connection: a disconnect does not abort an in-flight normalization or
// transcription.
func (s *Server) runPipeline(r *http.Request, entry *requestlog.Entry, log *slog.Logger) (*transcriptionResponse, error) {
	if !s.gate.TryAcquire() {
		return nil, services.Wrap(services.ErrBusy, "server", "admit", "capacity exhausted", nil)
	}
	defer s.gate.Release()

	ctx := context.WithoutCancel(r.Context())

	maxWait := time.Duration(s.cfg.Model.LoadWaitSeconds) * time.Second
	if !s.models.EnsureReady(ctx, maxWait) {
		return nil, services.Wrap(services.ErrModelNotReady, "server", "ensure ready",
			"model state "+string(s.models.State()), nil)
	}

	part, err := uploadPart(r)
	if err != nil {
		return nil, err
	}
	defer part.Close()

	entry.Filename = part.FileName()
	entry.ContentType = part.Header.Get("Content-Type")

	if err := validateUpload(entry.Filename, entry.ContentType); err != nil {
		return nil, err
	}

	scratch, err := os.MkdirTemp("", "whisperd-*")
	if err != nil {
		return nil, services.Wrap(nil, "server", "create scratch dir", "", err)
	}
	defer os.RemoveAll(scratch)

	inputPath := filepath.Join(scratch, "input"+strings.ToLower(filepath.Ext(entry.Filename)))
	size, err := ingest.SaveLimited(part, inputPath, s.cfg.Transcribe.MaxUploadBytes)
	entry.SizeBytes = size
	if err != nil {
		return nil, err
	}
	log.Debug("upload saved", logging.Int64("bytes", size))

	normalizedPath := filepath.Join(scratch, "normalized.wav")
	if err := s.normalizer.Normalize(ctx, inputPath, normalizedPath); err != nil {
		return nil, err
	}

	result, err := s.models.Transcribe(ctx, normalizedPath, s.cfg.Model.BeamSize)
	if err != nil {
		// Inference failures stay untyped and fall through to the
		// catch-all 500 mapping.
		return nil, err
	}

	return buildResponse(result), nil
}

// uploadPart streams to the multipart part named "file" without buffering
// the body. Absence of a usable part counts as an empty upload.
func uploadPart(r *http.Request) (*multipart.Part, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, services.Wrap(services.ErrEmptyUpload, "server", "parse form", "missing multipart body", nil)
	}
	for {
		part, err := reader.NextPart()
		if err != nil {
			return nil, services.Wrap(services.ErrEmptyUpload, "server", "parse form", "missing file field", nil)
		}
		if part.FormName() == "file" {
			return part, nil
		}
		_ = part.Close()
	}
}

// buildResponse joins the segment texts. Individual segments keep their raw
// text; only the joined transcript is trimmed.
func buildResponse(result model.Result) *transcriptionResponse {
	texts := make([]string, 0, len(result.Segments))
	for _, segment := range result.Segments {
		texts = append(texts, segment.Text)
	}
	response := &transcriptionResponse{
		Text:     strings.TrimSpace(strings.Join(texts, " ")),
		Language: result.Language,
		Segments: result.Segments,
	}
	if response.Language == "" {
		response.Language = "unknown"
	}
	if response.Segments == nil {
		response.Segments = []model.Segment{}
	}
	return response
}
