package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/biosketch-checker/internal/db"
	"github.com/jonathan/biosketch-checker/internal/ingestion"
	"github.com/jonathan/biosketch-checker/internal/pipeline"
	"github.com/jonathan/biosketch-checker/internal/types"
)

// ValidateRequest represents the request body for /validate
type ValidateRequest struct {
	Text       string `json:"text" validate:"required"`
	SourceName string `json:"sourceName,omitempty" validate:"max=255"`
}

// uploadFormField is the multipart field carrying the document.
const uploadFormField = "file"

// readUpload reads the uploaded document from a multipart request.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	if r.ContentLength > s.maxUploadBytes {
		return "", nil, &http.MaxBytesError{Limit: s.maxUploadBytes}
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, err
		}
		return "", nil, &ErrValidation{Field: uploadFormField, Message: "invalid multipart form"}
	}

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		return "", nil, &ErrValidation{Field: uploadFormField, Message: "no file uploaded"}
	}
	defer file.Close() //nolint:errcheck

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(ingestion.SupportedExtensions(), ext) {
		return "", nil, &ingestion.UnsupportedFormatError{Filename: header.Filename, Format: ext}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, err
	}
	if len(data) == 0 {
		return "", nil, &ErrValidation{Field: uploadFormField, Message: "file is empty"}
	}
	return header.Filename, data, nil
}

// handleProcess validates an uploaded document
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.processor.Process(r.Context(), pipeline.Input{Filename: filename, Data: data})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.persist(r, report)
	s.jsonResponse(w, http.StatusOK, report)
}

// handleProcessStream validates an uploaded document and streams stage
// progress as SSE "stage" events, ending with a "report" or "error" event.
// Upload errors are still plain JSON responses since no stream has started.
func (s *Server) handleProcessStream(w http.ResponseWriter, r *http.Request) {
	filename, data, err := s.readUpload(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stream, err := newProgressStream(w, s.logger)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	report, err := s.processor.Process(r.Context(), pipeline.Input{
		Filename:   filename,
		Data:       data,
		OnProgress: stream.stage,
	})
	if err != nil {
		stream.fail(err)
		return
	}
	s.persist(r, report)
	stream.report(report)
}

// handleValidate validates raw biosketch text
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, err)
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, validationError(err))
		return
	}

	report, err := s.processor.Process(r.Context(), pipeline.Input{Filename: req.SourceName, Text: req.Text})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.persist(r, report)
	s.jsonResponse(w, http.StatusOK, report)
}

// persist saves the report when a store is configured. Failures are logged;
// the caller still receives its report.
func (s *Server) persist(r *http.Request, report *types.ValidationResult) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveReport(r.Context(), report); err != nil {
		s.logger.Error("failed to save report", zap.String("id", report.ID.String()), zap.Error(err))
	}
}

// handleTemplate returns the active template configuration
func (s *Server) handleTemplate(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.processor.Template())
}

// parseListOptions reads status, hash, limit and offset query parameters.
func parseListOptions(r *http.Request) (db.ListOptions, error) {
	query := r.URL.Query()
	opts := db.ListOptions{DocumentHash: query.Get("hash")}

	if status := query.Get("status"); status != "" {
		severity := types.Severity(strings.ToLower(status))
		switch severity {
		case types.SeverityRed, types.SeverityYellow, types.SeverityGreen:
			opts.Status = &severity
		default:
			return opts, &ErrValidation{Field: "status", Message: "must be red, yellow or green"}
		}
	}

	for name, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
		}
		*dst = n
	}
	return opts, nil
}

// handleListReports lists saved reports, newest first
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, &ErrStoreUnavailable{})
		return
	}
	opts, err := parseListOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	summaries, err := s.store.ListReports(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"reports": summaries, "count": len(summaries)})
}

// handleGetReport returns one saved report
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}
	if s.store == nil {
		s.writeError(w, r, &ErrStoreUnavailable{})
		return
	}

	report, err := s.store.GetReport(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if report == nil {
		s.writeError(w, r, &ErrNotFound{Resource: "report", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
