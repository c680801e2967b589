package api

import (
	"context"
	"net/http"

	"github.com/okian/ninebox/internal/domain/session"
)

// EmployeeDependencies defines the interface for per-employee reads and reverts.
type EmployeeDependencies interface {
	Employees(ctx context.Context, id string) ([]session.EmployeeView, error)
	Employee(ctx context.Context, id, employeeID string) (session.EmployeeView, error)
	BigMover(ctx context.Context, id, employeeID string) (bool, error)
	Revert(ctx context.Context, id, employeeID string) (session.EmployeeView, error)
}

// EmployeesHandler handles employee requests within a session.
type EmployeesHandler struct {
	deps EmployeeDependencies
}

// NewEmployeesHandler creates a new employees handler.
func NewEmployeesHandler(deps EmployeeDependencies) *EmployeesHandler {
	return &EmployeesHandler{deps: deps}
}

type bigMoverResponse struct {
	EmployeeID string `json:"employee_id"`
	BigMover   bool   `json:"big_mover"`
}

// HandleList handles GET /sessions/{id}/employees.
func (h *EmployeesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	views, err := h.deps.Employees(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	out := make([]employeeResponse, 0, len(views))
	for _, v := range views {
		out = append(out, employeeJSON(v))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGet handles GET /sessions/{id}/employees/{eid}.
func (h *EmployeesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Employee(r.Context(), r.PathValue("id"), r.PathValue("eid"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employeeJSON(view))
}

// HandleBigMover handles GET /sessions/{id}/employees/{eid}/big-mover.
func (h *EmployeesHandler) HandleBigMover(w http.ResponseWriter, r *http.Request) {
	eid := r.PathValue("eid")
	big, err := h.deps.BigMover(r.Context(), r.PathValue("id"), eid)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bigMoverResponse{EmployeeID: eid, BigMover: big})
}

// HandleRevert handles POST /sessions/{id}/employees/{eid}/revert.
func (h *EmployeesHandler) HandleRevert(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Revert(r.Context(), r.PathValue("id"), r.PathValue("eid"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, employeeJSON(view))
}
