package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baechuer/real-time-ressys/services/access-service/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu sync.Mutex

	byID    map[string]domain.User
	byEmail map[string]domain.User
	seq     int

	// injected errors (if set, method returns error)
	findErr      error
	createErr    error
	updatePwdErr error

	createCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]domain.User{},
		byEmail: map[string]domain.User{},
	}
}

func (f *fakeUserRepo) put(u domain.User) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		f.seq++
		u.ID = fmt.Sprintf("u-%d", f.seq)
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return domain.User{}, false, f.findErr
	}
	u, ok := f.byEmail[email]
	return u, ok, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (domain.User, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return domain.User{}, false, f.findErr
	}
	u, ok := f.byID[id]
	return u, ok, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, email, passwordHash string, role domain.Role) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	if _, exists := f.byEmail[email]; exists {
		return domain.User{}, fmt.Errorf("users.email: %w", domain.ErrDuplicateKey)
	}
	f.seq++
	u := domain.User{
		ID:           fmt.Sprintf("u-%d", f.seq),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(ctx context.Context, email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updatePwdErr != nil {
		return f.updatePwdErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return errors.New("not found")
	}
	u.PasswordHash = passwordHash
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

type fakeEmailRepo struct {
	mu sync.Mutex

	byEmail map[string]domain.AuthorizedEmail

	findErr   error
	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func newFakeEmailRepo() *fakeEmailRepo {
	return &fakeEmailRepo{byEmail: map[string]domain.AuthorizedEmail{}}
}

func (f *fakeEmailRepo) allow(email string, role domain.Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byEmail[email] = domain.AuthorizedEmail{Email: email, Role: role, CreatedAt: time.Now()}
}

func (f *fakeEmailRepo) Find(ctx context.Context, email string) (domain.AuthorizedEmail, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return domain.AuthorizedEmail{}, false, f.findErr
	}
	e, ok := f.byEmail[email]
	return e, ok, nil
}

func (f *fakeEmailRepo) List(ctx context.Context) ([]domain.AuthorizedEmail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.AuthorizedEmail, 0, len(f.byEmail))
	for _, e := range f.byEmail {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEmailRepo) Create(ctx context.Context, email string, role domain.Role) (domain.AuthorizedEmail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.AuthorizedEmail{}, f.createErr
	}
	if _, exists := f.byEmail[email]; exists {
		return domain.AuthorizedEmail{}, fmt.Errorf("authorized_emails.email: %w", domain.ErrDuplicateKey)
	}
	e := domain.AuthorizedEmail{Email: email, Role: role, CreatedAt: time.Now()}
	f.byEmail[email] = e
	return e, nil
}

func (f *fakeEmailRepo) UpdateRole(ctx context.Context, email string, role domain.Role) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return false, f.updateErr
	}
	e, ok := f.byEmail[email]
	if !ok {
		return false, nil
	}
	e.Role = role
	f.byEmail[email] = e
	return true, nil
}

func (f *fakeEmailRepo) Delete(ctx context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byEmail, email)
	return nil
}

type fakeHasher struct {
	mu sync.Mutex

	hashFn   func(pw string) (string, error)
	verifyFn func(hash, pw string) (bool, error)

	hashCalls   int
	verifyCalls int
}

func (h *fakeHasher) Hash(ctx context.Context, password string) (string, error) {
	h.mu.Lock()
	h.hashCalls++
	h.mu.Unlock()

	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Verify(ctx context.Context, hash, password string) (bool, error) {
	h.mu.Lock()
	h.verifyCalls++
	h.mu.Unlock()

	if h.verifyFn != nil {
		return h.verifyFn(hash, password)
	}
	if !strings.HasPrefix(hash, "hash:") {
		return false, fmt.Errorf("%w: bad prefix", domain.ErrCorruptCredential)
	}
	return hash == "hash:"+password, nil
}

func (h *fakeHasher) counts() (hashes, verifies int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hashCalls, h.verifyCalls
}

type fakeSessions struct {
	mu sync.Mutex

	bySID map[string]string // sid -> userID
	seq   int

	createErr  error
	lookupErr  error
	destroyErr error

	destroyed []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{bySID: map[string]string{}}
}

func (s *fakeSessions) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return "", s.createErr
	}
	s.seq++
	sid := fmt.Sprintf("sid-%d", s.seq)
	s.bySID[sid] = userID
	return sid, nil
}

func (s *fakeSessions) Lookup(ctx context.Context, sid string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookupErr != nil {
		return "", false, s.lookupErr
	}
	uid, ok := s.bySID[sid]
	return uid, ok, nil
}

func (s *fakeSessions) Destroy(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyErr != nil {
		return s.destroyErr
	}
	delete(s.bySID, sid)
	s.destroyed = append(s.destroyed, sid)
	return nil
}

type fakePublisher struct {
	mu sync.Mutex

	registeredErr error
	whitelistErr  error

	registered []UserRegisteredEvent
	whitelist  []WhitelistChangedEvent
}

func (p *fakePublisher) PublishUserRegistered(ctx context.Context, evt UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.registeredErr != nil {
		return p.registeredErr
	}
	p.registered = append(p.registered, evt)
	return nil
}

func (p *fakePublisher) PublishWhitelistChanged(ctx context.Context, evt WhitelistChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.whitelistErr != nil {
		return p.whitelistErr
	}
	p.whitelist = append(p.whitelist, evt)
	return nil
}

/*
Service factory for tests
*/

type testEnv struct {
	svc      *Service
	users    *fakeUserRepo
	emails   *fakeEmailRepo
	hasher   *fakeHasher
	sessions *fakeSessions
	pub      *fakePublisher

	auditMu sync.Mutex
	audits  []auditEntry
}

func newSvcForTest(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:    newFakeUserRepo(),
		emails:   newFakeEmailRepo(),
		hasher:   &fakeHasher{},
		sessions: newFakeSessions(),
		pub:      &fakePublisher{},
	}

	env.svc = NewService(env.users, env.emails, env.hasher, env.sessions, env.pub, Config{
		SessionTTL: time.Hour,
	}).WithAudit(func(_ context.Context, action string, fields map[string]string) {
		cp := map[string]string{}
		for k, v := range fields {
			cp[k] = v
		}
		env.auditMu.Lock()
		env.audits = append(env.audits, auditEntry{action: action, fields: cp})
		env.auditMu.Unlock()
	})

	// sanity check: no nil ports
	if env.svc == nil {
		t.Fatalf("svc is nil")
	}
	return env
}

/*
Small assertions
*/

func requireErrCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error code=%q, got nil", code)
	}
	if errCode(err) != code {
		t.Fatalf("expected code=%q, got err=%v", code, err)
	}
}

func (e *testEnv) lastAudit(t *testing.T, wantAction string) auditEntry {
	t.Helper()
	e.auditMu.Lock()
	defer e.auditMu.Unlock()

	if len(e.audits) == 0 {
		t.Fatalf("expected audit entry, got none")
	}
	last := e.audits[len(e.audits)-1]
	if last.action != wantAction {
		t.Fatalf("expected audit action %q, got %q", wantAction, last.action)
	}
	return last
}

func requireAuditField(t *testing.T, e auditEntry, k, want string) {
	t.Helper()
	got := strings.TrimSpace(e.fields[k])
	if got != want {
		t.Fatalf("expected audit field %q=%q, got %q (all=%v)", k, want, got, e.fields)
	}
}

// errCode returns the domain code carried by err, or "" for other errors.
func errCode(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
