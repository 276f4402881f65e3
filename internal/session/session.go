package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// AuthAPI is the slice of the backend client the session needs.
type AuthAPI interface {
	Register(ctx context.Context, in model.NewCustomer) (model.Customer, error)
	Login(ctx context.Context, creds model.Credentials) (model.Token, error)
	Me(ctx context.Context) (model.User, error)
	SetToken(token string)
}

// Session holds the current identity. The token lives in the store and on the
// API client; the user is only known after a successful /auth/me.
type Session struct {
	api    AuthAPI
	store  TokenStore
	logger *log.Logger
	now    func() time.Time

	mu   sync.RWMutex
	user *model.User
}

func New(api AuthAPI, store TokenStore, logger *log.Logger) *Session {
	return &Session{api: api, store: store, logger: logger, now: time.Now}
}

func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// Restore resumes a persisted session. A missing token is not an error; an
// expired or rejected one is cleared and its error returned.
func (s *Session) Restore(ctx context.Context) (*model.User, error) {
	token, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	if expired(token, s.now()) {
		s.logger.Println("stored token expired, clearing")
		s.clear(ctx)
		return nil, ErrNotAuthenticated
	}

	s.api.SetToken(token)
	u, err := s.api.Me(ctx)
	if err != nil {
		s.clear(ctx)
		return nil, fmt.Errorf("restore session: %w", err)
	}
	s.setUser(&u)
	return s.User(), nil
}

func (s *Session) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	tok, err := s.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, tok.AccessToken); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	s.api.SetToken(tok.AccessToken)

	u, err := s.api.Me(ctx)
	if err != nil {
		s.clear(ctx)
		return nil, err
	}
	s.setUser(&u)
	return s.User(), nil
}

// Register creates the account and then logs in with the same credentials.
func (s *Session) Register(ctx context.Context, in model.NewCustomer) (*model.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.api.Register(ctx, in); err != nil {
		return nil, err
	}
	return s.Login(ctx, model.Credentials{Email: in.Email, Password: in.Password})
}

func (s *Session) Logout(ctx context.Context) error {
	s.setUser(nil)
	s.api.SetToken("")
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

func (s *Session) setUser(u *model.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *Session) clear(ctx context.Context) {
	s.setUser(nil)
	s.api.SetToken("")
	if err := s.store.Clear(ctx); err != nil {
		s.logger.Printf("clear token: %v", err)
	}
}

// expired reports whether token is a JWT whose exp has passed. Opaque tokens
// and tokens without exp are left for the backend to judge.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}
