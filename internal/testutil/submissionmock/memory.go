package submissionmock

import (
	"context"
	"sort"
	"sync"
	"time"

	"compliance-portal/internal/domain/apperr"
	"compliance-portal/internal/domain/organization"
	domain "compliance-portal/internal/domain/submission"

	"gorm.io/gorm"
)

// Store keeps submissions in memory and hands out copies, so a usecase only
// changes a row through the repository like it would against a database.
type Store struct {
	mu   sync.Mutex
	rows map[string]domain.Submission
}

func NewStore(seed ...domain.Submission) *Store {
	st := &Store{rows: map[string]domain.Submission{}}
	for _, s := range seed {
		st.rows[s.ID] = s
	}
	return st
}

func (st *Store) Get(id string) (domain.Submission, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.rows[id]
	return s, ok
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.rows)
}

func (st *Store) sorted(keep func(domain.Submission) bool) []domain.Submission {
	var out []domain.Submission
	for _, s := range st.rows {
		if keep(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (st *Store) get(id string) (*domain.Submission, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

// Repo returns a mock whose functions read and write the store. Individual
// fields can still be overridden to inject failures.
func (st *Store) Repo() *Repo {
	return &Repo{
		CreateFn: func(_ context.Context, s *domain.Submission) error {
			st.mu.Lock()
			defer st.mu.Unlock()
			if _, dup := st.rows[s.ID]; dup {
				return gorm.ErrDuplicatedKey
			}
			st.rows[s.ID] = *s
			return nil
		},
		GetByIDFn:          func(_ context.Context, id string) (*domain.Submission, error) { return st.get(id) },
		GetByIDForUpdateFn: func(_ context.Context, id string) (*domain.Submission, error) { return st.get(id) },
		LatestForRevisionFn: func(_ context.Context, origin organization.Code, title string, kind domain.Kind) (*domain.Submission, error) {
			st.mu.Lock()
			defer st.mu.Unlock()
			rows := st.sorted(func(s domain.Submission) bool {
				return s.OrganizationOfOrigin == origin && s.ActivityTitle == title && s.Kind == kind && s.Status == domain.StatusForRevision
			})
			if len(rows) == 0 {
				return nil, gorm.ErrRecordNotFound
			}
			latest := rows[len(rows)-1]
			return &latest, nil
		},
		HasApprovalFn: func(_ context.Context, origin organization.Code, title string, kind domain.Kind) (bool, error) {
			st.mu.Lock()
			defer st.mu.Unlock()
			for _, s := range st.rows {
				if s.OrganizationOfOrigin == origin && s.ActivityTitle == title && s.Kind == kind && s.EverApproved() {
					return true, nil
				}
			}
			return false, nil
		},
		UpdateIfStatusFn: func(_ context.Context, s *domain.Submission, expected domain.Status) error {
			st.mu.Lock()
			defer st.mu.Unlock()
			cur, ok := st.rows[s.ID]
			if !ok || cur.Status != expected {
				return apperr.Conflict("submission %s is no longer %s", s.ID, expected)
			}
			st.rows[s.ID] = *s
			return nil
		},
		DeleteFn: func(_ context.Context, id string) error {
			st.mu.Lock()
			defer st.mu.Unlock()
			delete(st.rows, id)
			return nil
		},
		ListForActivityFn: func(_ context.Context, activityID, title string) ([]domain.Submission, error) {
			st.mu.Lock()
			defer st.mu.Unlock()
			return st.sorted(func(s domain.Submission) bool { return s.Correlates(activityID, title) }), nil
		},
		ListVisibleFn: func(_ context.Context, scope domain.Scope) ([]domain.Submission, error) {
			st.mu.Lock()
			defer st.mu.Unlock()
			in := func(c organization.Code, set []organization.Code) bool {
				for _, x := range set {
					if x == c {
						return true
					}
				}
				return false
			}
			return st.sorted(func(s domain.Submission) bool {
				return in(s.OrganizationOfOrigin, scope.Origins) || in(s.SubmittedTo, scope.Reviewers)
			}), nil
		},
		CountAuditClassifiedFn: func(_ context.Context, origin organization.Code, from, to time.Time) (int64, error) {
			st.mu.Lock()
			defer st.mu.Unlock()
			var n int64
			for _, s := range st.rows {
				if s.OrganizationOfOrigin == origin && s.AuditSemester != nil && s.AuditReviewedAt != nil &&
					!s.AuditReviewedAt.Before(from) && s.AuditReviewedAt.Before(to) {
					n++
				}
			}
			return n, nil
		},
	}
}
