package session

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/model"
)

type fakeAuth struct {
	RegisterFn func(ctx context.Context, in model.NewCustomer) (model.Customer, error)
	LoginFn    func(ctx context.Context, creds model.Credentials) (model.Token, error)
	MeFn       func(ctx context.Context) (model.User, error)

	token    string
	meCalls  int
	regCalls int
}

func (f *fakeAuth) Register(ctx context.Context, in model.NewCustomer) (model.Customer, error) {
	f.regCalls++
	return f.RegisterFn(ctx, in)
}

func (f *fakeAuth) Login(ctx context.Context, creds model.Credentials) (model.Token, error) {
	return f.LoginFn(ctx, creds)
}

func (f *fakeAuth) Me(ctx context.Context) (model.User, error) {
	f.meCalls++
	return f.MeFn(ctx)
}

func (f *fakeAuth) SetToken(token string) { f.token = token }

func newTestSession(api *fakeAuth, store TokenStore) *Session {
	return New(api, store, log.New(io.Discard, "", 0))
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "ana@example.com", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func meAna(context.Context) (model.User, error) {
	return model.User{ID: 4, Email: "ana@example.com", FirstName: "Ana", LastName: "Lopez"}, nil
}

func TestLoginPersistsTokenAndLoadsUser(t *testing.T) {
	store := NewMemoryStore()
	api := &fakeAuth{
		LoginFn: func(_ context.Context, c model.Credentials) (model.Token, error) {
			assert.Equal(t, "ana@example.com", c.Email)
			return model.Token{AccessToken: "abc", TokenType: "bearer"}, nil
		},
		MeFn: meAna,
	}
	s := newTestSession(api, store)

	u, err := s.Login(context.Background(), model.Credentials{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, 4, u.ID)
	assert.True(t, s.Authenticated())
	assert.Equal(t, "abc", api.token)

	stored, _ := store.Load(context.Background())
	assert.Equal(t, "abc", stored)
}

func TestLoginRejectsEmptyCredentialsWithoutCall(t *testing.T) {
	api := &fakeAuth{}
	s := newTestSession(api, NewMemoryStore())

	_, err := s.Login(context.Background(), model.Credentials{Email: "", Password: ""})
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Zero(t, api.meCalls)
}

func TestRegisterValidatesThenLogsIn(t *testing.T) {
	api := &fakeAuth{
		RegisterFn: func(_ context.Context, in model.NewCustomer) (model.Customer, error) {
			return model.Customer{ID: 4, Email: in.Email}, nil
		},
		LoginFn: func(context.Context, model.Credentials) (model.Token, error) {
			return model.Token{AccessToken: "abc"}, nil
		},
		MeFn: meAna,
	}
	s := newTestSession(api, NewMemoryStore())

	short := model.NewCustomer{FirstName: "Ana", LastName: "Lopez", BirthDate: "1990-01-01", NationalID: "1", Email: "ana@example.com", Password: "123"}
	_, err := s.Register(context.Background(), short)
	require.ErrorIs(t, err, model.ErrInvalidInput)
	assert.Zero(t, api.regCalls)

	short.Password = "123456"
	u, err := s.Register(context.Background(), short)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, 1, api.regCalls)
}

func TestRestoreWithValidToken(t *testing.T) {
	store := NewMemoryStore()
	tok := signed(t, time.Now().Add(time.Hour))
	require.NoError(t, store.Save(context.Background(), tok))

	api := &fakeAuth{MeFn: meAna}
	s := newTestSession(api, store)

	u, err := s.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, tok, api.token)
}

func TestRestoreClearsExpiredTokenWithoutCall(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), signed(t, time.Now().Add(-time.Minute))))

	api := &fakeAuth{MeFn: meAna}
	s := newTestSession(api, store)

	u, err := s.Restore(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Nil(t, u)
	assert.Zero(t, api.meCalls)

	stored, _ := store.Load(context.Background())
	assert.Empty(t, stored)
}

func TestRestoreClearsTokenWhenIdentityCheckFails(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), "opaque-token"))

	boom := errors.New("session expired or not authenticated")
	api := &fakeAuth{MeFn: func(context.Context) (model.User, error) { return model.User{}, boom }}
	s := newTestSession(api, store)

	_, err := s.Restore(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, s.Authenticated())
	assert.Empty(t, api.token)

	stored, _ := store.Load(context.Background())
	assert.Empty(t, stored)
}

func TestRestoreWithoutTokenIsNoop(t *testing.T) {
	api := &fakeAuth{}
	s := newTestSession(api, NewMemoryStore())

	u, err := s.Restore(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, u)
	assert.Zero(t, api.meCalls)
}

func TestLogoutClearsEverything(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	api := &fakeAuth{
		LoginFn: func(context.Context, model.Credentials) (model.Token, error) {
			return model.Token{AccessToken: "abc"}, nil
		},
		MeFn: meAna,
	}
	s := newTestSession(api, store)
	_, err := s.Login(context.Background(), model.Credentials{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, s.Logout(context.Background()))
	assert.Nil(t, s.User())
	assert.Empty(t, api.token)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"))

	v, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, store.Save(ctx, "abc"))
	v, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
}

func TestExpiredIgnoresOpaqueTokens(t *testing.T) {
	now := time.Now()
	assert.False(t, expired("not-a-jwt", now))
	assert.True(t, expired(signed(t, now.Add(-time.Second)), now))
	assert.False(t, expired(signed(t, now.Add(time.Minute)), now))
}
