package uowmock

import (
	"context"
	"errors"

	"compliance-portal/internal/domain/submission"
	"compliance-portal/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn           func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinSubmissionTxFn func(ctx context.Context, submissionID string, fn func(r uow.Repos, s *submission.Submission) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every body directly against repos. Submission-scoped bodies
// get the row from repos.Submissions.GetByIDForUpdate, like the gorm UoW.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		},
		WithinSubmissionTxFn: func(ctx context.Context, id string, fn func(uow.Repos, *submission.Submission) error) error {
			s, err := repos.Submissions.GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			return fn(repos, s)
		},
	}
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinSubmissionTx(fn func(context.Context, string, func(uow.Repos, *submission.Submission) error) error) *UoW {
	m.WithinSubmissionTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinSubmissionTx(ctx context.Context, submissionID string, fn func(r uow.Repos, s *submission.Submission) error) error {
	if m.WithinSubmissionTxFn != nil {
		return m.WithinSubmissionTxFn(ctx, submissionID, fn)
	}
	return errUnimplemented
}
