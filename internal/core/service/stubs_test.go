package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apiwiz/task-system/internal/core/domain"
	"github.com/apiwiz/task-system/internal/core/ports"
	"github.com/apiwiz/task-system/internal/core/query"
)

// In-memory doubles for the repository ports. They implement just enough
// semantics for the services under test: email uniqueness, not-found
// sentinels, and predicate evaluation for task queries.

type stubUserRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[string]*domain.User{}}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	cp := *user
	cp.ID = fmt.Sprintf("u%d", r.seq)
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

type stubRoleRepo struct {
	records []domain.RoleRecord
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{records: []domain.RoleRecord{
		{ID: "r1", Name: domain.RoleUser},
		{ID: "r2", Name: domain.RoleAdmin},
		{ID: "r3", Name: domain.RoleSuperAdmin},
	}}
}

func (r *stubRoleRepo) FindByName(_ context.Context, name domain.Role) (*domain.RoleRecord, error) {
	for _, rec := range r.records {
		if rec.Name == name {
			cp := rec
			return &cp, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) Count(context.Context) (int64, error) {
	return int64(len(r.records)), nil
}

func (r *stubRoleRepo) Insert(_ context.Context, roles []domain.RoleRecord) error {
	r.records = append(r.records, roles...)
	return nil
}

type stubIssuer struct {
	err error
}

func (s stubIssuer) Issue(user *domain.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + user.Email, nil
}

type stubRevocationList struct {
	marked []string
	err    error
}

func (s *stubRevocationList) Mark(_ context.Context, userID string) error {
	if s.err != nil {
		return s.err
	}
	s.marked = append(s.marked, userID)
	return nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (a *recordingAudit) Record(event ports.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.events))
	for i, e := range a.events {
		out[i] = e.Action
	}
	return out
}

type stubTaskRepo struct {
	mu       sync.Mutex
	seq      int
	tasks    map[string]*domain.Task
	queryErr error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: map[string]*domain.Task{}}
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cp := *t
	cp.ID = fmt.Sprintf("t%d", r.seq)
	r.tasks[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// Query evaluates predicates in memory the same way the store would: all
// conditions ANDed, date matches on the day component, substring matches
// case-sensitive.
func (r *stubTaskRepo) Query(_ context.Context, q query.Query) (*query.Page[domain.Task], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.queryErr != nil {
		return nil, r.queryErr
	}

	var matched []domain.Task
	for _, t := range r.tasks {
		if matchesAll(t, q.Predicates) {
			matched = append(matched, *t)
		}
	}

	sortTasks(matched, q.Sort)

	total := int64(len(matched))
	start := q.Page.Index * q.Page.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return query.NewPage(matched[start:end], q.Page.Index, q.Page.Size, total), nil
}

func matchesAll(t *domain.Task, preds []query.Predicate) bool {
	for _, p := range preds {
		if !matches(t, p) {
			return false
		}
	}
	return true
}

func matches(t *domain.Task, p query.Predicate) bool {
	switch p.Field {
	case query.FieldOwner:
		return t.UserID == p.Value.(string)
	case query.FieldStatus:
		return string(t.Status) == p.Value.(string)
	case query.FieldTitle:
		return strings.Contains(t.Title, p.Value.(string))
	case query.FieldDueDate:
		day := p.Value.(time.Time)
		due := t.DueDate.UTC()
		return !due.Before(day) && due.Before(day.AddDate(0, 0, 1))
	}
	return false
}

func sortTasks(tasks []domain.Task, s query.Sort) {
	sort.Slice(tasks, func(i, j int) bool {
		var less bool
		switch s.Field {
		case query.FieldTitle:
			if tasks[i].Title != tasks[j].Title {
				less = tasks[i].Title < tasks[j].Title
			} else {
				return tasks[i].ID < tasks[j].ID
			}
		case query.FieldDueDate:
			if !tasks[i].DueDate.Equal(tasks[j].DueDate) {
				less = tasks[i].DueDate.Before(tasks[j].DueDate)
			} else {
				return tasks[i].ID < tasks[j].ID
			}
		default:
			less = tasks[i].ID < tasks[j].ID
		}
		if s.Direction == query.Desc {
			return !less
		}
		return less
	})
}
