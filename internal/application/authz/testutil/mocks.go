// Package testutil provides mock implementations for testing the authz
// application layer.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aegis-idp/aegis/internal/domain/client"
	"github.com/aegis-idp/aegis/internal/domain/permission"
	vo "github.com/aegis-idp/aegis/internal/domain/permission/value_objects"
	"github.com/aegis-idp/aegis/internal/domain/resource"
	"github.com/aegis-idp/aegis/internal/domain/revocation"
	"github.com/aegis-idp/aegis/internal/infrastructure/auth"
	"github.com/aegis-idp/aegis/internal/shared/logger"
)

// MockGrantRepository is an in-memory permission.GrantRepository.
type MockGrantRepository struct {
	mu     sync.RWMutex
	grants map[uint]*permission.Grant
	nextID uint

	listError error
}

func NewMockGrantRepository() *MockGrantRepository {
	return &MockGrantRepository{grants: make(map[uint]*permission.Grant)}
}

// AddGrant stores a grant, assigning an id when none is set.
func (m *MockGrantRepository) AddGrant(g *permission.Grant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID() == 0 {
		m.nextID++
		_ = g.SetID(m.nextID)
	} else if g.ID() > m.nextID {
		m.nextID = g.ID()
	}
	m.grants[g.ID()] = g
}

// SetListError injects a failure into list calls.
func (m *MockGrantRepository) SetListError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listError = err
}

func (m *MockGrantRepository) Create(ctx context.Context, g *permission.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.grants {
		if existing.Subject() == g.Subject() && existing.ResourceID() == g.ResourceID() && existing.IsActive(time.Now().UTC()) {
			return permission.ErrDuplicateActiveGrant
		}
	}
	if g.ID() == 0 {
		m.nextID++
		if err := g.SetID(m.nextID); err != nil {
			return err
		}
	} else if g.ID() > m.nextID {
		m.nextID = g.ID()
	}
	m.grants[g.ID()] = g
	return nil
}

func (m *MockGrantRepository) Update(ctx context.Context, g *permission.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[g.ID()] = g
	return nil
}

func (m *MockGrantRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.grants, id)
	return nil
}

func (m *MockGrantRepository) GetByID(ctx context.Context, id uint) (*permission.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grants[id], nil
}

func (m *MockGrantRepository) GetActiveBySubjectAndResource(ctx context.Context, subject vo.Subject, resourceID uint) (*permission.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, g := range m.grants {
		if g.Subject() == subject && g.ResourceID() == resourceID && g.IsActive(time.Now().UTC()) {
			return g, nil
		}
	}
	return nil, nil
}

func (m *MockGrantRepository) ListActiveBySubjects(ctx context.Context, subjects []vo.Subject) ([]*permission.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listError != nil {
		return nil, m.listError
	}

	now := time.Now().UTC()
	var out []*permission.Grant
	// iterate in id order for deterministic output
	for id := uint(1); id <= m.nextID; id++ {
		g, ok := m.grants[id]
		if !ok || !g.IsActive(now) {
			continue
		}
		for _, s := range subjects {
			if g.Subject() == s {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func (m *MockGrantRepository) List(ctx context.Context, filter permission.GrantFilter) ([]*permission.Grant, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listError != nil {
		return nil, 0, m.listError
	}
	var out []*permission.Grant
	for id := uint(1); id <= m.nextID; id++ {
		g, ok := m.grants[id]
		if !ok {
			continue
		}
		if filter.SubjectType != "" && g.Subject().Type != filter.SubjectType {
			continue
		}
		if filter.SubjectID != "" && g.Subject().ID != filter.SubjectID {
			continue
		}
		if filter.ResourceID != 0 && g.ResourceID() != filter.ResourceID {
			continue
		}
		if filter.EnabledOnly && !g.Enabled() {
			continue
		}
		out = append(out, g)
	}
	return out, int64(len(out)), nil
}

// MockMembershipRepository maps users onto their membership subjects.
type MockMembershipRepository struct {
	mu          sync.RWMutex
	memberships map[string][]vo.Subject
	err         error
}

func NewMockMembershipRepository() *MockMembershipRepository {
	return &MockMembershipRepository{memberships: make(map[string][]vo.Subject)}
}

func (m *MockMembershipRepository) AddMembership(userID string, subject vo.Subject) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberships[userID] = append(m.memberships[userID], subject)
}

func (m *MockMembershipRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockMembershipRepository) ListForUser(ctx context.Context, userID string) ([]vo.Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.memberships[userID], nil
}

// MockResourceRepository serves a fixed resource snapshot.
type MockResourceRepository struct {
	mu        sync.RWMutex
	resources map[uint]*resource.Resource
	err       error
}

func NewMockResourceRepository() *MockResourceRepository {
	return &MockResourceRepository{resources: make(map[uint]*resource.Resource)}
}

func (m *MockResourceRepository) AddResource(r *resource.Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[r.ID()] = r
}

func (m *MockResourceRepository) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockResourceRepository) Create(ctx context.Context, r *resource.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID() == 0 {
		if err := r.SetID(uint(len(m.resources) + 1)); err != nil {
			return err
		}
	}
	m.resources[r.ID()] = r
	return nil
}

func (m *MockResourceRepository) Update(ctx context.Context, r *resource.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resources[r.ID()] = r
	return nil
}

func (m *MockResourceRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resources, id)
	return nil
}

func (m *MockResourceRepository) GetByID(ctx context.Context, id uint) (*resource.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.resources[id], nil
}

func (m *MockResourceRepository) ListAll(ctx context.Context) ([]*resource.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*resource.Resource, 0, len(m.resources))
	for _, r := range m.resources {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

func (m *MockResourceRepository) ListByClient(ctx context.Context, clientID uint) ([]*resource.Resource, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*resource.Resource
	for _, r := range all {
		if r.ClientID() == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockResourceRepository) ExistsByCode(ctx context.Context, clientID uint, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.resources {
		if r.ClientID() == clientID && r.Code() == code {
			return true, nil
		}
	}
	return false, nil
}

// MockClientRepository is an in-memory client.Repository.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[uint]*client.RegisteredClient
	nextID  uint
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{clients: make(map[uint]*client.RegisteredClient)}
}

func (m *MockClientRepository) AddClient(c *client.RegisteredClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID() == 0 {
		m.nextID++
		_ = c.SetID(m.nextID)
	}
	m.clients[c.ID()] = c
}

func (m *MockClientRepository) Create(ctx context.Context, c *client.RegisteredClient) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID() == 0 {
		m.nextID++
		if err := c.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.clients[c.ID()] = c
	return nil
}

func (m *MockClientRepository) GetByClientID(ctx context.Context, clientID string) (*client.RegisteredClient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if c.ClientID() == clientID {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uint) (*client.RegisteredClient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clients[id], nil
}

func (m *MockClientRepository) List(ctx context.Context) ([]*client.RegisteredClient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*client.RegisteredClient, 0, len(m.clients))
	for id := uint(1); id <= m.nextID; id++ {
		if c, ok := m.clients[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockClientRepository) ExistsByClientID(ctx context.Context, clientID string) (bool, error) {
	c, err := m.GetByClientID(ctx, clientID)
	return c != nil, err
}

// MockClientAuthenticator returns a fixed client or error.
type MockClientAuthenticator struct {
	Client *client.RegisteredClient
	Err    error
}

func (m *MockClientAuthenticator) Authenticate(ctx context.Context, clientID, clientSecret string) (*client.RegisteredClient, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Client, nil
}

// MockTokenVerifier returns a fixed trust result or error.
type MockTokenVerifier struct {
	Result *auth.TrustResult
	Err    error
}

func (m *MockTokenVerifier) Verify(ctx context.Context, rawToken string) (*auth.TrustResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// MockRegistry is an in-memory revocation.Registry.
type MockRegistry struct {
	mu      sync.RWMutex
	entries map[string]*revocation.RevokedToken

	revokeError error
	checkError  error
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{entries: make(map[string]*revocation.RevokedToken)}
}

func (m *MockRegistry) SetRevokeError(err error) { m.revokeError = err }
func (m *MockRegistry) SetCheckError(err error)  { m.checkError = err }

func (m *MockRegistry) Revoke(ctx context.Context, entry *revocation.RevokedToken) (revocation.Outcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revokeError != nil {
		return 0, m.revokeError
	}
	if _, ok := m.entries[entry.JTI()]; ok {
		return revocation.OutcomeAlreadyRevoked, nil
	}
	m.entries[entry.JTI()] = entry
	return revocation.OutcomeInserted, nil
}

func (m *MockRegistry) IsRevoked(ctx context.Context, jti string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.checkError != nil {
		return false, m.checkError
	}
	_, ok := m.entries[jti]
	return ok, nil
}

func (m *MockRegistry) GetByJTI(ctx context.Context, jti string) (*revocation.RevokedToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[jti], nil
}

func (m *MockRegistry) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for jti, entry := range m.entries {
		if entry.ExpiresAt().Before(cutoff) {
			delete(m.entries, jti)
			purged++
		}
	}
	return purged, nil
}

// MockLogger records log calls and satisfies logger.Interface.
type MockLogger struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// LogEntry records one log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

func NewMockLogger() *MockLogger {
	return &MockLogger{entries: make([]LogEntry, 0)}
}

func (m *MockLogger) Debug(msg string, args ...any) { m.log("DEBUG", msg, args...) }
func (m *MockLogger) Info(msg string, args ...any)  { m.log("INFO", msg, args...) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.log("WARN", msg, args...) }
func (m *MockLogger) Error(msg string, args ...any) { m.log("ERROR", msg, args...) }

func (m *MockLogger) With(args ...any) logger.Interface  { return m }
func (m *MockLogger) Named(name string) logger.Interface { return m }

func (m *MockLogger) Debugw(msg string, keysAndValues ...any) { m.log("DEBUG", msg, keysAndValues...) }
func (m *MockLogger) Infow(msg string, keysAndValues ...any)  { m.log("INFO", msg, keysAndValues...) }
func (m *MockLogger) Warnw(msg string, keysAndValues ...any)  { m.log("WARN", msg, keysAndValues...) }
func (m *MockLogger) Errorw(msg string, keysAndValues ...any) { m.log("ERROR", msg, keysAndValues...) }

func (m *MockLogger) log(level, msg string, fields ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := LogEntry{Level: level, Message: msg, Fields: make(map[string]any)}
	for i := 0; i < len(fields)-1; i += 2 {
		if key, ok := fields[i].(string); ok {
			entry.Fields[key] = fields[i+1]
		}
	}
	m.entries = append(m.entries, entry)
}

// Entries returns all recorded log calls.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]LogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}
