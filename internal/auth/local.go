package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/wastewise/internal/database/repository"
	"github.com/jask/wastewise/internal/secrets"
)

const tokenKey = "session"

// TokenStore persists the remembered session token between runs. Load
// returns secrets.ErrNotFound when nothing is remembered.
type TokenStore interface {
	Save(key, token string) error
	Load(key string) (string, error)
	Delete(key string) error
}

// LocalProvider is a Provider backed by the users and sessions tables.
//
// Listeners are called in the order state changes happen, one at a time. They
// must not call back into the provider synchronously.
type LocalProvider struct {
	users    *repository.UserRepo
	sessions *repository.SessionRepo
	tokens   TokenStore
	ttl      time.Duration
	log      *slog.Logger
	now      func() time.Time

	emitMu sync.Mutex // serialises state changes with their delivery

	mu        sync.Mutex
	current   *Identity
	token     string
	resolved  bool
	listeners map[uint64]func(*Identity)
	nextID    uint64
}

// LocalOptions configures a LocalProvider.
type LocalOptions struct {
	// Tokens remembers the session across runs; nil disables remembering.
	Tokens TokenStore
	TTL    time.Duration
	Logger *slog.Logger
}

func NewLocalProvider(users *repository.UserRepo, sessions *repository.SessionRepo, opts LocalOptions) *LocalProvider {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalProvider{
		users:     users,
		sessions:  sessions,
		tokens:    opts.Tokens,
		ttl:       ttl,
		log:       logger.With("component", "auth"),
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		listeners: map[uint64]func(*Identity){},
	}
}

// Subscribe implements Provider. Once the provider has resolved its initial
// state, a new listener immediately receives the current identity.
func (p *LocalProvider) Subscribe(listener func(*Identity)) func() {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = listener
	resolved, current := p.resolved, cloneIdentity(p.current)
	p.mu.Unlock()

	if resolved {
		listener(current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// Current returns the signed-in identity or nil.
func (p *LocalProvider) Current() *Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneIdentity(p.current)
}

// Restore resolves the initial state from the remembered token and emits it.
// Any failure to restore is logged and treated as signed out.
func (p *LocalProvider) Restore(ctx context.Context) {
	id, token, err := p.restore(ctx)
	if err != nil {
		p.log.Warn("session restore failed", "err", err)
		if p.tokens != nil {
			_ = p.tokens.Delete(tokenKey)
		}
		id, token = nil, ""
	}
	if id != nil {
		p.log.Info("session restored", "uid", id.UID)
	}
	p.set(id, token)
}

func (p *LocalProvider) restore(ctx context.Context) (*Identity, string, error) {
	if p.tokens == nil {
		return nil, "", nil
	}
	token, err := p.tokens.Load(tokenKey)
	if errors.Is(err, secrets.ErrNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("load token: %w", err)
	}
	s, err := p.sessions.Get(ctx, token)
	if err != nil {
		return nil, "", err
	}
	if s == nil {
		return nil, "", fmt.Errorf("unknown session token")
	}
	if s.Expired(p.now()) {
		_ = p.sessions.Delete(ctx, token)
		return nil, "", ErrSessionExpired
	}
	u, err := p.users.ByID(ctx, s.UserID)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", fmt.Errorf("session user %s missing", s.UserID)
	}
	return identityOf(u), token, nil
}

// SignUp registers a user account with the user role and signs it in.
func (p *LocalProvider) SignUp(ctx context.Context, email, password, displayName string) (Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return Identity{}, ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return Identity{}, ErrWeakPassword
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Identity{}, fmt.Errorf("hash password: %w", err)
	}
	now := p.now()
	u := repository.User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  strings.TrimSpace(displayName),
		PasswordHash: hash,
		Role:         string(RoleUser),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return Identity{}, ErrEmailTaken
		}
		return Identity{}, fmt.Errorf("create user: %w", err)
	}
	p.log.Info("account created", "uid", u.ID)
	return p.startSession(ctx, &u)
}

// SignIn checks credentials and starts a session.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	u, err := p.users.ByEmail(ctx, email)
	if err != nil {
		return Identity{}, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || !CheckPassword(password, u.PasswordHash) {
		return Identity{}, ErrInvalidCredentials
	}
	return p.startSession(ctx, u)
}

func (p *LocalProvider) startSession(ctx context.Context, u *repository.User) (Identity, error) {
	now := p.now()
	s := repository.Session{Token: uuid.NewString(), UserID: u.ID, CreatedAt: now, ExpiresAt: now.Add(p.ttl)}
	if err := p.sessions.Create(ctx, s); err != nil {
		return Identity{}, fmt.Errorf("create session: %w", err)
	}
	if p.tokens != nil {
		if err := p.tokens.Save(tokenKey, s.Token); err != nil {
			p.log.Warn("remember session failed", "err", err)
		}
	}
	// a sign-in replaces any previous session of this client
	if prev := p.currentToken(); prev != "" {
		_ = p.sessions.Delete(ctx, prev)
	}
	id := identityOf(u)
	p.log.Info("signed in", "uid", id.UID)
	p.set(id, s.Token)
	return *id, nil
}

// SignOut ends the current session. Signing out while signed out is a no-op.
func (p *LocalProvider) SignOut(ctx context.Context) error {
	token := p.currentToken()
	if p.Current() == nil {
		return nil
	}
	if token != "" {
		if err := p.sessions.Delete(ctx, token); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	if p.tokens != nil {
		if err := p.tokens.Delete(tokenKey); err != nil {
			p.log.Warn("forget session failed", "err", err)
		}
	}
	p.log.Info("signed out")
	p.set(nil, "")
	return nil
}

func (p *LocalProvider) currentToken() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token
}

func (p *LocalProvider) set(id *Identity, token string) {
	p.emitMu.Lock()
	defer p.emitMu.Unlock()

	p.mu.Lock()
	p.current = id
	p.token = token
	p.resolved = true
	listeners := make([]func(*Identity), 0, len(p.listeners))
	for _, l := range p.listeners {
		listeners = append(listeners, l)
	}
	p.mu.Unlock()

	for _, l := range listeners {
		l(cloneIdentity(id))
	}
}

func identityOf(u *repository.User) *Identity {
	return &Identity{UID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func cloneIdentity(id *Identity) *Identity {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func validEmail(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}
