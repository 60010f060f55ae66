package services

import (
	"sync"

	"github.com/Dosada05/scouting-system/duplicates"
)

// adminWorkspace - состояние экрана дубликатов одного администратора.
type adminWorkspace struct {
	sessions        duplicates.Sessions
	includeArchived bool
}

// SessionStore keeps duplicate-resolution sessions in memory, one workspace per admin.
// Sessions are working state only; nothing here is persisted.
type SessionStore struct {
	mu         sync.Mutex
	workspaces map[string]*adminWorkspace
}

func NewSessionStore() *SessionStore {
	return &SessionStore{workspaces: make(map[string]*adminWorkspace)}
}

func (s *SessionStore) workspace(adminID string) *adminWorkspace {
	ws, ok := s.workspaces[adminID]
	if !ok {
		ws = &adminWorkspace{sessions: duplicates.Sessions{}}
		s.workspaces[adminID] = ws
	}
	return ws
}

// IncludeArchived returns the grouping option the admin last listed groups with.
func (s *SessionStore) IncludeArchived(adminID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspace(adminID).includeArchived
}

func (s *SessionStore) SetIncludeArchived(adminID string, include bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspace(adminID).includeArchived = include
}

// Update reconciles the admin's sessions against freshly computed groups, then lets fn
// transform them. The result of fn is stored only when fn returns no error.
func (s *SessionStore) Update(adminID string, groups []duplicates.Group, fn func(duplicates.Sessions) (duplicates.Sessions, error)) (duplicates.Sessions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.workspace(adminID)
	reconciled := duplicates.Reconcile(ws.sessions, groups)
	ws.sessions = reconciled
	if fn == nil {
		return reconciled, nil
	}

	next, err := fn(reconciled)
	if err != nil {
		return reconciled, err
	}
	ws.sessions = next
	return next, nil
}

// Clear resets the admin's session for one group; defaults are derived on next access.
func (s *SessionStore) Clear(adminID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.workspace(adminID)
	ws.sessions = ws.sessions.Clear(key)
}

// Forget drops every session of the admin, e.g. after the account is deleted.
func (s *SessionStore) Forget(adminID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workspaces, adminID)
}
