package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/session"
)

const (
	mediaJSON      = "application/json"
	mediaMultipart = "multipart/form-data"
	mediaXLSX      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	uploadField    = "file"
)

// SessionDependencies defines the interface for session lifecycle operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context, baseline []model.Employee) (session.Summary, error)
	ImportSession(ctx context.Context, r io.Reader) (session.Summary, error)
	Session(ctx context.Context, id string) (session.Summary, error)
	DestroySession(ctx context.Context, id string) error
	Snapshot(ctx context.Context, id string) (session.Snapshot, error)
	ExportWorkbook(ctx context.Context, id string, w io.Writer) error
}

// SessionsHandler handles session lifecycle and export requests.
type SessionsHandler struct {
	deps           SessionDependencies
	maxUploadBytes int64
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies, maxUploadBytes int64) *SessionsHandler {
	return &SessionsHandler{deps: deps, maxUploadBytes: maxUploadBytes}
}

// HandleCreate handles POST /sessions. The body is either a JSON array of
// baseline employees, a raw .xlsx workbook, or a multipart form carrying
// the workbook in the "file" field.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	mediaType := mediaJSON
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fault.WrapKind(op, ErrBadRequest, err))
			return
		}
		mediaType = mt
	}

	var (
		sum session.Summary
		err error
	)
	switch mediaType {
	case mediaJSON:
		var baseline []baselineEmployee
		if err := json.NewDecoder(r.Body).Decode(&baseline); err != nil {
			h.writeBodyError(w, op, err)
			return
		}
		employees := make([]model.Employee, 0, len(baseline))
		for _, b := range baseline {
			employees = append(employees, b.model())
		}
		sum, err = h.deps.CreateSession(r.Context(), employees)
	case mediaXLSX:
		body, readErr := io.ReadAll(r.Body)
		if readErr != nil {
			h.writeBodyError(w, op, readErr)
			return
		}
		sum, err = h.deps.ImportSession(r.Context(), bytes.NewReader(body))
	case mediaMultipart:
		if perr := r.ParseMultipartForm(h.maxUploadBytes); perr != nil {
			h.writeBodyError(w, op, perr)
			return
		}
		file, _, ferr := r.FormFile(uploadField)
		if ferr != nil {
			writeError(w, http.StatusBadRequest, "bad_request",
				fault.WrapKind(op, ErrBadRequest, fmt.Errorf("form field %q: %w", uploadField, ferr)))
			return
		}
		defer func() { _ = file.Close() }()
		sum, err = h.deps.ImportSession(r.Context(), file)
	default:
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type",
			fault.Wrap(op, fmt.Errorf("%w: %s", ErrUnsupported, mediaType)))
		return
	}
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summaryJSON(sum))
}

// HandleGet handles GET /sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sum, err := h.deps.Session(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryJSON(sum))
}

// HandleDelete handles DELETE /sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DestroySession(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport handles GET /sessions/{id}/export?format=xlsx|json.
func (h *SessionsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	id := r.PathValue("id")

	switch format := r.URL.Query().Get("format"); format {
	case "json":
		snap, err := h.deps.Snapshot(r.Context(), id)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snapshotJSON(snap))
	case "", "xlsx":
		// Buffer so a failed export can still produce a JSON error.
		var buf bytes.Buffer
		if err := h.deps.ExportWorkbook(r.Context(), id, &buf); err != nil {
			writeFailure(w, err)
			return
		}
		w.Header().Set("Content-Type", mediaXLSX)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "ninebox-"+id+".xlsx"))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	default:
		writeError(w, http.StatusBadRequest, "bad_request",
			fault.WrapKind(op, ErrBadRequest, fmt.Errorf("unknown format %q", format)))
	}
}

func (h *SessionsHandler) writeBodyError(w http.ResponseWriter, op string, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large",
			fault.Wrap(op, fmt.Errorf("%w: limit %d bytes", ErrUploadTooBig, tooBig.Limit)))
		return
	}
	if errors.Is(err, fault.ErrValidation) {
		writeFailure(w, err)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", fault.WrapKind(op, ErrBadRequest, err))
}
