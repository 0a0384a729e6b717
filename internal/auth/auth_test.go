// internal/auth/auth_test.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bookmanager/internal/logger"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users  map[string]User
	err    error
	nextID int64
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]User{}}
}

func (f *fakeUsers) UserByEmail(_ context.Context, email string) (User, error) {
	if f.err != nil {
		return User{}, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) CreateUser(_ context.Context, u User) (User, error) {
	if _, ok := f.users[u.Email]; ok {
		return User{}, ErrUserExists
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.Email] = u
	return u, nil
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	users := newFakeUsers()
	_, err := EnsureUser(ctx, users, "Admin", "Admin@Example.com", "s3cret")
	require.NoError(t, err)
	authn := NewAuthenticator(users)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Valid credentials", email: "admin@example.com", password: "s3cret"},
		{name: "Email case and spaces ignored", email: " ADMIN@example.com ", password: "s3cret"},
		{name: "Wrong password", email: "admin@example.com", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "Unknown user", email: "nobody@example.com", password: "s3cret", wantErr: ErrInvalidCredentials},
		{name: "Empty password", email: "admin@example.com", password: "", wantErr: ErrInvalidCredentials},
		{name: "Empty email", email: "", password: "s3cret", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			user, err := authn.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				req.ErrorIs(err, tt.wantErr)
				return
			}
			req.NoError(err)
			req.Equal("admin@example.com", user.Email)
			req.Equal("Admin", user.Name)
		})
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	users := newFakeUsers()
	users.err = errors.New("disk on fire")

	_, err := NewAuthenticator(users).Authenticate(context.Background(), "a@b.c", "pw")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureUser_Idempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	users := newFakeUsers()

	first, err := EnsureUser(ctx, users, "Admin", "admin@example.com", "one")
	req.NoError(err)
	second, err := EnsureUser(ctx, users, "Other", "admin@example.com", "two")
	req.NoError(err)
	req.Equal(first.ID, second.ID)
	req.Len(users.users, 1)
	req.NotEqual("one", first.PasswordHash)

	_, err = EnsureUser(ctx, users, "x", "", "pw")
	req.Error(err)
}

func TestBasicAuth(t *testing.T) {
	users := newFakeUsers()
	_, err := EnsureUser(context.Background(), users, "Admin", "admin@example.com", "s3cret")
	require.NoError(t, err)

	var seen User
	protected := BasicAuth(NewAuthenticator(users), logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		setHeader  func(r *http.Request)
		wantStatus int
		wantError  string
	}{
		{
			name:       "Missing header",
			setHeader:  func(*http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Missing Authorization Header",
		},
		{
			name:       "Wrong scheme",
			setHeader:  func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid Authorization Header",
		},
		{
			name:       "Wrong password",
			setHeader:  func(r *http.Request) { r.SetBasicAuth("admin@example.com", "nope") },
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid credentials",
		},
		{
			name:       "Valid credentials",
			setHeader:  func(r *http.Request) { r.SetBasicAuth("admin@example.com", "s3cret") },
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			seen = User{}
			r := httptest.NewRequest(http.MethodPost, "/api/books", nil)
			tt.setHeader(r)
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, r)

			req.Equal(tt.wantStatus, w.Code)
			if tt.wantError == "" {
				req.Equal("admin@example.com", seen.Email)
				return
			}
			req.Contains(w.Header().Get("WWW-Authenticate"), "Basic")
			var body map[string]string
			req.NoError(json.NewDecoder(w.Body).Decode(&body))
			req.Equal(tt.wantError, body["error"])
			req.Empty(seen.Email)
		})
	}
}
