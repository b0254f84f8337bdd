package guard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mitrahse/vendorhr-api/internal/statemachine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingVerifier struct {
	calls int
	err   error
	token string
	path  string
}

func (v *countingVerifier) Verify(ctx context.Context, token, path string) error {
	v.calls++
	v.token = token
	v.path = path
	return v.err
}

func TestGuard_NoToken(t *testing.T) {
	v := &countingVerifier{}
	g := New(NewMemoryStore("", nil), v, "/login")

	d := g.Check(context.Background(), "/elnusa/users")

	assert.Equal(t, statemachine.GuardUnauthorized, d.State)
	assert.False(t, d.Authorized())
	assert.Equal(t, "/login?redirect=%2Felnusa%2Fusers", d.Redirect)
	assert.Zero(t, v.calls)
	assert.False(t, d.Verified)
}

func TestGuard_CachedAccessSkipsVerifier(t *testing.T) {
	v := &countingVerifier{}
	g := New(NewMemoryStore("tok", []string{"/elnusa/users"}), v, "/login")

	d := g.Check(context.Background(), "/elnusa/users/12")

	assert.True(t, d.Authorized())
	assert.Empty(t, d.Redirect)
	assert.Zero(t, v.calls)
}

func TestGuard_FallsBackToVerifier(t *testing.T) {
	v := &countingVerifier{}
	g := New(NewMemoryStore("tok", []string{"/elnusa/users"}), v, "/login")

	d := g.Check(context.Background(), "/elnusa/hse")

	assert.True(t, d.Authorized())
	assert.True(t, d.Verified)
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, "tok", v.token)
	assert.Equal(t, "/elnusa/hse", v.path)
}

func TestGuard_VerifyFailureClearsCredentials(t *testing.T) {
	store := NewMemoryStore("tok", []string{"/umran/users"})
	v := &countingVerifier{err: errors.New("expired")}
	g := New(store, v, "/login")

	d := g.Check(context.Background(), "/elnusa/users")

	assert.Equal(t, statemachine.GuardUnauthorized, d.State)
	assert.Equal(t, "/login?redirect=%2Felnusa%2Fusers", d.Redirect)
	assert.Equal(t, "expired", d.Reason)

	_, ok := store.Token()
	assert.False(t, ok)
	assert.Empty(t, store.AccessPages())
}

func TestGuard_NoVerifierDeniesUncachedPath(t *testing.T) {
	store := NewMemoryStore("tok", nil)
	g := New(store, nil, "/login")

	d := g.Check(context.Background(), "/elnusa/users")
	assert.False(t, d.Authorized())

	// credentials survive since nothing rejected them
	_, ok := store.Token()
	assert.True(t, ok)
}

type stuckMachine struct {
	err error
}

func (m stuckMachine) Grant(ctx context.Context) error { return m.err }
func (m stuckMachine) Deny(ctx context.Context) error  { return m.err }
func (m stuckMachine) Current() string                 { return statemachine.GuardChecking }

func TestGuard_TransitionFailureDenies(t *testing.T) {
	store := NewMemoryStore("tok", []string{"/elnusa/users"})
	g := New(store, &countingVerifier{}, "/login")
	g.newMachine = func() machine { return stuckMachine{err: errors.New("event inappropriate")} }

	d := g.Check(context.Background(), "/elnusa/users")

	assert.False(t, d.Authorized())
	assert.Equal(t, statemachine.GuardUnauthorized, d.State)
	assert.Equal(t, "event inappropriate", d.Reason)
	assert.Equal(t, "/login?redirect=%2Felnusa%2Fusers", d.Redirect)

	// a transition failure is not a rejected token
	_, ok := store.Token()
	assert.True(t, ok)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		page, path string
		want       bool
	}{
		{"/elnusa/users", "/elnusa/users", true},
		{"/elnusa/users/", "/elnusa/users", true},
		{"/elnusa/users", "/elnusa/users/7/hse", true},
		{"/elnusa/users", "/elnusa/users-archive", false},
		{"/elnusa/users", "/umran/users", false},
		{"/elnusa/users/:id", "/elnusa/users/7", true},
		{"/elnusa/users/:id", "/elnusa/users/7/history", true},
		{"/elnusa/users/:id", "/elnusa/users", false},
		{"/:tenant/dashboard", "/umran/dashboard?tab=1", true},
		{"/", "/elnusa", false},
		{"", "/elnusa", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Match(tt.page, tt.path), "%s vs %s", tt.page, tt.path)
	}
}

func TestHTTPVerifier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			assert.Equal(t, "/elnusa/users", r.URL.Query().Get("path"))
			_, _ = w.Write([]byte(`{"valid":true}`))
		case "Bearer revoked":
			_, _ = w.Write([]byte(`{"valid":false}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Token tidak valid"}`))
		}
	}))
	defer srv.Close()

	v := NewHTTPVerifier(srv.URL+"/api/accountuser/verify", time.Second)
	ctx := context.Background()

	require.NoError(t, v.Verify(ctx, "good", "/elnusa/users"))
	assert.Error(t, v.Verify(ctx, "revoked", "/elnusa/users"))

	err := v.Verify(ctx, "bad", "/elnusa/users")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
