// Package guard decides whether a holder of a stored token may open a
// protected path, first against a locally cached access list and then
// against a remote verifier.
package guard

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/mitrahse/vendorhr-api/internal/statemachine"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
)

// ErrNoToken is reported when the store holds no token
var ErrNoToken = errors.New("token tidak ditemukan")

// TokenStore holds the credentials of one realm
type TokenStore interface {
	Token() (string, bool)
	AccessPages() []string
	Clear()
}

// Verifier confirms a token for a path, typically with a remote call
type Verifier interface {
	Verify(ctx context.Context, token, path string) error
}

// VerifierFunc adapts a function to Verifier
type VerifierFunc func(ctx context.Context, token, path string) error

// Verify calls f
func (f VerifierFunc) Verify(ctx context.Context, token, path string) error {
	return f(ctx, token, path)
}

// Decision is the settled outcome of one check
type Decision struct {
	State    string `json:"state"`
	Path     string `json:"path"`
	Redirect string `json:"redirect,omitempty"`
	Verified bool   `json:"verified"`
	Reason   string `json:"reason,omitempty"`
}

// Authorized reports whether the protected content may be rendered
func (d Decision) Authorized() bool {
	return d.State == statemachine.GuardAuthorized
}

// machine is the per-check state machine
type machine interface {
	Grant(ctx context.Context) error
	Deny(ctx context.Context) error
	Current() string
}

// Guard protects the routes of one realm
type Guard struct {
	store      TokenStore
	verifier   Verifier
	loginPath  string
	newMachine func() machine
}

// New creates a guard. loginPath is where unauthorized checks redirect.
func New(store TokenStore, verifier Verifier, loginPath string) *Guard {
	return &Guard{
		store:      store,
		verifier:   verifier,
		loginPath:  loginPath,
		newMachine: func() machine { return statemachine.NewGuardFSM() },
	}
}

// Check runs checking → authorized | unauthorized for path. A failed
// transition settles the check as unauthorized.
func (g *Guard) Check(ctx context.Context, path string) Decision {
	m := g.newMachine()
	d := Decision{Path: path}

	reason, clear := g.evaluate(ctx, path, &d)
	if reason == "" {
		if err := m.Grant(ctx); err != nil {
			logger.FromContext(ctx).Error("Route guard transition failed", "path", path, "error", err)
			reason = err.Error()
		} else {
			d.State = m.Current()
			return d
		}
	}

	if clear {
		g.store.Clear()
	}
	if err := m.Deny(ctx); err != nil {
		logger.FromContext(ctx).Error("Route guard transition failed", "path", path, "error", err)
	}
	d.State = statemachine.GuardUnauthorized
	d.Reason = reason
	d.Redirect = LoginRedirect(g.loginPath, path)
	return d
}

// evaluate returns an empty reason when path is admitted. clear reports
// whether the stored credentials must be dropped.
func (g *Guard) evaluate(ctx context.Context, path string, d *Decision) (reason string, clear bool) {
	token, ok := g.store.Token()
	if !ok || token == "" {
		return ErrNoToken.Error(), false
	}

	if MatchAny(g.store.AccessPages(), path) {
		return "", false
	}

	if g.verifier == nil {
		return "halaman tidak diizinkan", false
	}

	d.Verified = true
	if err := g.verifier.Verify(ctx, token, path); err != nil {
		logger.FromContext(ctx).Warn("Route guard verification failed", "path", path, "error", err)
		return err.Error(), true
	}
	return "", false
}

// LoginRedirect builds the login URL that returns to path after login
func LoginRedirect(loginPath, path string) string {
	if path == "" {
		return loginPath
	}
	return loginPath + "?redirect=" + url.QueryEscape(path)
}

// MatchAny reports whether path is admitted by any page
func MatchAny(pages []string, path string) bool {
	for _, p := range pages {
		if Match(p, path) {
			return true
		}
	}
	return false
}

// Match admits path when it equals page, lies under page, or fits page as
// a parameterized route ("/elnusa/users/:id").
func Match(page, path string) bool {
	page = trimPath(page)
	path = trimPath(path)
	if page == "" {
		return false
	}
	if page == path {
		return true
	}
	if page == "/" {
		return false
	}
	if !strings.Contains(page, ":") {
		return strings.HasPrefix(path, page+"/")
	}

	pageSegs := strings.Split(page, "/")
	pathSegs := strings.Split(path, "/")
	if len(pathSegs) < len(pageSegs) {
		return false
	}
	for i, seg := range pageSegs {
		if strings.HasPrefix(seg, ":") {
			if pathSegs[i] == "" {
				return false
			}
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return true
}

func trimPath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}
