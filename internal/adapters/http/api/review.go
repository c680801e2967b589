package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/ninebox/internal/domain/fault"
	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/session"
)

// ReviewDependencies defines the interface for moves, notes and mode changes.
type ReviewDependencies interface {
	Move(ctx context.Context, id, employeeID string, performance, potential grid.Level, note *string) (session.MoveResult, error)
	UpdateNote(ctx context.Context, id, employeeID, note string, mode model.Mode) (model.ChangeEntry, error)
	ToggleDonut(ctx context.Context, id string, enabled bool) (bool, error)
	Changes(ctx context.Context, id string, mode model.Mode) ([]model.ChangeEntry, error)
}

// ReviewHandler handles the grid interactions of a review session.
type ReviewHandler struct {
	deps ReviewDependencies
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(deps ReviewDependencies) *ReviewHandler {
	return &ReviewHandler{deps: deps}
}

type moveRequest struct {
	EmployeeID  string     `json:"employee_id"`
	Performance grid.Level `json:"performance"`
	Potential   grid.Level `json:"potential"`
	Note        *string    `json:"note,omitempty"`
}

func (m moveRequest) validate() error {
	switch {
	case strings.TrimSpace(m.EmployeeID) == "":
		return errors.New("missing employee_id")
	case !m.Performance.Valid():
		return errors.New("missing performance")
	case !m.Potential.Valid():
		return errors.New("missing potential")
	}
	return nil
}

type moveResponse struct {
	Employee employeeResponse `json:"employee"`
	Change   *changeResponse  `json:"change"`
}

type noteRequest struct {
	EmployeeID string `json:"employee_id"`
	Note       string `json:"note"`
	Mode       string `json:"mode"`
}

type donutRequest struct {
	Enabled *bool `json:"enabled"`
}

type donutResponse struct {
	Enabled bool `json:"enabled"`
}

// HandleMove handles POST /sessions/{id}/moves.
func (h *ReviewHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	const op = "api.move"
	var req moveRequest
	if !decode(w, r, op, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation", fault.WrapKind(op, fault.ErrValidation, err))
		return
	}

	res, err := h.deps.Move(r.Context(), r.PathValue("id"), req.EmployeeID, req.Performance, req.Potential, req.Note)
	if err != nil {
		writeFailure(w, err)
		return
	}
	out := moveResponse{Employee: employeeJSON(res.Employee)}
	if res.Change != nil {
		c := changeJSON(*res.Change)
		out.Change = &c
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleNote handles PUT /sessions/{id}/notes.
func (h *ReviewHandler) HandleNote(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_note"
	var req noteRequest
	if !decode(w, r, op, &req) {
		return
	}
	mode, err := model.ParseMode(req.Mode)
	if err != nil {
		writeFailure(w, err)
		return
	}

	entry, err := h.deps.UpdateNote(r.Context(), r.PathValue("id"), req.EmployeeID, req.Note, mode)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, changeJSON(entry))
}

// HandleDonut handles POST /sessions/{id}/donut.
func (h *ReviewHandler) HandleDonut(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_donut"
	var req donutRequest
	if !decode(w, r, op, &req) {
		return
	}
	if req.Enabled == nil {
		writeError(w, http.StatusBadRequest, "validation",
			fault.Newf(op, fault.ErrValidation, "missing enabled"))
		return
	}

	enabled, err := h.deps.ToggleDonut(r.Context(), r.PathValue("id"), *req.Enabled)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, donutResponse{Enabled: enabled})
}

// HandleChanges handles GET /sessions/{id}/changes?mode=normal|donut. With no
// mode the session's active mode is used.
func (h *ReviewHandler) HandleChanges(w http.ResponseWriter, r *http.Request) {
	var mode model.Mode
	if raw := r.URL.Query().Get("mode"); raw != "" {
		m, err := model.ParseMode(raw)
		if err != nil {
			writeFailure(w, err)
			return
		}
		mode = m
	}

	changes, err := h.deps.Changes(r.Context(), r.PathValue("id"), mode)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, changesJSON(changes))
}

// decode reads a JSON body into v and writes a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, op string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, fault.ErrValidation) {
			writeFailure(w, err)
			return false
		}
		writeError(w, http.StatusBadRequest, "bad_request", fault.WrapKind(op, ErrBadRequest, err))
		return false
	}
	return true
}
