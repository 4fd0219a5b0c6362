// internal/session/manager.go

// Package session owns one context store per authenticated session. Tenant
// scope is deliberately not process-global: two sessions of the same user,
// or of different users, never share a store.
package session

import (
	"context"
	"sync"

	"github.com/fleetgrid/orgctx/internal/persist"
	"github.com/fleetgrid/orgctx/internal/service"
	"github.com/fleetgrid/orgctx/internal/store"
	"github.com/google/uuid"
)

type Manager struct {
	directory *service.DirectoryService
	vault     persist.Vault

	mu     sync.Mutex
	stores map[string]*store.ContextStore
}

func NewManager(directory *service.DirectoryService, vault persist.Vault) *Manager {
	return &Manager{
		directory: directory,
		vault:     vault,
		stores:    make(map[string]*store.ContextStore),
	}
}

// Store returns the session's context store, creating it on first use. The
// store talks to the directory as the given user and checkpoints into a
// vault namespace private to the session, so the persisted keys keep their
// plain names ("organization-storage", "token") within it.
func (m *Manager) Store(ctx context.Context, sessionID string, userID uuid.UUID) *store.ContextStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[sessionID]; ok {
		return s
	}

	api := m.directory.ForUser(userID, sessionID)
	vault := persist.Scoped(m.vault, "session:"+sessionID)
	s := store.New(ctx, api, vault)
	m.stores[sessionID] = s
	return s
}

// Drop forgets the session's store. The vault contents are left in place so
// a returning session resumes its last tenant.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.stores, sessionID)
}
