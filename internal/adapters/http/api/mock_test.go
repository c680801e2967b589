package api_test

import (
	"context"
	"io"

	"github.com/okian/ninebox/internal/domain/grid"
	"github.com/okian/ninebox/internal/domain/model"
	"github.com/okian/ninebox/internal/domain/session"
)

// failingDeps returns err from every operation.
type failingDeps struct {
	err error
}

func (f *failingDeps) CreateSession(context.Context, []model.Employee) (session.Summary, error) {
	return session.Summary{}, f.err
}

func (f *failingDeps) ImportSession(context.Context, io.Reader) (session.Summary, error) {
	return session.Summary{}, f.err
}

func (f *failingDeps) Session(context.Context, string) (session.Summary, error) {
	return session.Summary{}, f.err
}

func (f *failingDeps) DestroySession(context.Context, string) error { return f.err }

func (f *failingDeps) Snapshot(context.Context, string) (session.Snapshot, error) {
	return session.Snapshot{}, f.err
}

func (f *failingDeps) ExportWorkbook(context.Context, string, io.Writer) error { return f.err }

func (f *failingDeps) Employees(context.Context, string) ([]session.EmployeeView, error) {
	return nil, f.err
}

func (f *failingDeps) Employee(context.Context, string, string) (session.EmployeeView, error) {
	return session.EmployeeView{}, f.err
}

func (f *failingDeps) BigMover(context.Context, string, string) (bool, error) { return false, f.err }

func (f *failingDeps) Revert(context.Context, string, string) (session.EmployeeView, error) {
	return session.EmployeeView{}, f.err
}

func (f *failingDeps) Move(context.Context, string, string, grid.Level, grid.Level, *string) (session.MoveResult, error) {
	return session.MoveResult{}, f.err
}

func (f *failingDeps) UpdateNote(context.Context, string, string, string, model.Mode) (model.ChangeEntry, error) {
	return model.ChangeEntry{}, f.err
}

func (f *failingDeps) ToggleDonut(context.Context, string, bool) (bool, error) { return false, f.err }

func (f *failingDeps) Changes(context.Context, string, model.Mode) ([]model.ChangeEntry, error) {
	return nil, f.err
}
