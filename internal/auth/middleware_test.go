package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"task-service/internal/domain/account"
	"task-service/internal/rbac"
	"task-service/internal/rbac/presets"
	apperrors "task-service/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	mu       sync.Mutex
	accounts map[string]*account.Account
	err      error
	lookups  int
}

func (d *fakeDirectory) FindByUsername(_ context.Context, username string) (*account.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups++
	if d.err != nil {
		return nil, d.err
	}
	acc, ok := d.accounts[username]
	if !ok {
		return nil, apperrors.NotFound("account not found")
	}
	return acc, nil
}

type middlewareFixture struct {
	svc       *JWTService
	clock     *testClock
	directory *fakeDirectory
	mw        *Middleware
	e         *echo.Echo
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	svc, clock := newTestService(t, time.Hour)
	directory := &fakeDirectory{accounts: map[string]*account.Account{
		"alice": {ID: 1, Username: "alice", Email: "alice@example.com", Role: presets.RoleNormal},
		"mod":   {ID: 2, Username: "mod", Email: "mod@example.com", Role: presets.RoleModerator},
		"root":  {ID: 3, Username: "root", Email: "root@example.com", Role: presets.RoleSuperAdmin},
	}}
	checker := rbac.MustNew(presets.TaskManagement())

	return &middlewareFixture{
		svc:       svc,
		clock:     clock,
		directory: directory,
		mw:        NewMiddleware(svc, directory, checker, "jwt"),
		e:         echo.New(),
	}
}

// run passes req through Authenticate and returns the principal seen by the
// next handler, whether that handler ran, and the chain's error.
func (f *middlewareFixture) run(req *http.Request, prepare func(echo.Context)) (*Principal, bool, error) {
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	if prepare != nil {
		prepare(c)
	}

	var seen *Principal
	called := false
	err := f.mw.Authenticate()(func(c echo.Context) error {
		called = true
		seen, _ = PrincipalFrom(c)
		return c.NoContent(http.StatusOK)
	})(c)

	return seen, called, err
}

func (f *middlewareFixture) token(t *testing.T, subject string) string {
	t.Helper()
	tok, err := f.svc.Issue(subject)
	require.NoError(t, err)
	return tok.Value
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	f := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token(t, "alice"))

	p, called, err := f.run(req, nil)
	require.NoError(t, err)
	require.True(t, called)
	require.NotNil(t, p)

	assert.Equal(t, int64(1), p.ID())
	assert.Equal(t, "alice", p.Username())
	assert.Equal(t, "alice@example.com", p.Email())
	assert.Equal(t, presets.RoleNormal, p.Role())
	assert.Equal(t, "ROLE_NORMAL", p.Authorities()[0])
	assert.True(t, p.HasAuthority(string(presets.PermTodosOwnView)))
	assert.False(t, p.HasAuthority(string(presets.PermUsersView)))
}

func TestAuthenticate_CookieFallback(t *testing.T) {
	f := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "jwt", Value: f.token(t, "mod")})

	p, called, err := f.run(req, nil)
	require.NoError(t, err)
	require.True(t, called)
	require.NotNil(t, p)
	assert.Equal(t, "mod", p.Username())
	assert.True(t, p.HasRole(presets.RoleModerator))
}

func TestAuthenticate_HeaderWinsOverCookie(t *testing.T) {
	f := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token(t, "alice"))
	req.AddCookie(&http.Cookie{Name: "jwt", Value: f.token(t, "root")})

	p, _, err := f.run(req, nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice", p.Username())
}

func TestAuthenticate_MalformedHeaderFallsBackToCookie(t *testing.T) {
	f := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic dXNlcjpwYXNz")
	req.AddCookie(&http.Cookie{Name: "jwt", Value: f.token(t, "alice")})

	p, _, err := f.run(req, nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "alice", p.Username())
}

func TestAuthenticate_AnonymousCases(t *testing.T) {
	f := newMiddlewareFixture(t)

	otherKey, err := LoadSigningKey("Zq8vN3xK1mT6wR9bY2cJ5hL0fP4sD7gA", "")
	require.NoError(t, err)
	foreign, err := NewJWTService(otherKey, time.Hour).Issue("alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		cookie string
	}{
		{"no credentials", "", ""},
		{"garbage bearer", "Bearer not-a-token", ""},
		{"garbage cookie", "", "not-a-token"},
		{"foreign key", "Bearer " + foreign.Value, ""},
		{"unknown subject", "Bearer " + f.token(t, "ghost"), ""},
		{"empty bearer", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "jwt", Value: tt.cookie})
			}

			p, called, err := f.run(req, nil)
			assert.NoError(t, err)
			assert.True(t, called, "request must always be forwarded")
			assert.Nil(t, p)
		})
	}
}

func TestAuthenticate_ExpiredTokenIsAnonymous(t *testing.T) {
	f := newMiddlewareFixture(t)
	token := f.token(t, "alice")

	f.clock.Advance(61 * time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

	p, called, err := f.run(req, nil)
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Nil(t, p)
	assert.Zero(t, f.directory.lookups, "invalid tokens never reach the directory")
}

func TestAuthenticate_DirectoryFailureIsAnonymous(t *testing.T) {
	f := newMiddlewareFixture(t)
	f.directory.err = errors.New("connection refused")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token(t, "alice"))

	p, called, err := f.run(req, nil)
	assert.NoError(t, err)
	assert.True(t, called)
	assert.Nil(t, p)
}

func TestAuthenticate_DoesNotOverwriteExistingPrincipal(t *testing.T) {
	f := newMiddlewareFixture(t)
	existing := NewPrincipal(&account.Account{ID: 99, Username: "preset", Role: presets.RoleNormal}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+f.token(t, "root"))

	p, _, err := f.run(req, func(c echo.Context) { c.Set(ContextKeyPrincipal, existing) })
	require.NoError(t, err)
	assert.Same(t, existing, p)
	assert.Zero(t, f.directory.lookups)
}

func TestAuthenticate_RoleIsResolvedFromDirectory(t *testing.T) {
	f := newMiddlewareFixture(t)
	token := f.token(t, "alice")

	// Promotion after issuance shows up on the next request.
	f.directory.accounts["alice"] = &account.Account{ID: 1, Username: "alice", Role: presets.RoleModerator}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)

	p, _, err := f.run(req, nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.HasRole(presets.RoleModerator))
	assert.True(t, p.HasAuthority(string(presets.PermUsersView)))
}

func TestAuthenticate_NoHeaderNoCookieAtProtectedRoute(t *testing.T) {
	f := newMiddlewareFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)

	handlerCalled := false
	chain := f.mw.Authenticate()(RequireRole(presets.RoleNormal)(func(c echo.Context) error {
		handlerCalled = true
		return nil
	}))

	err := chain(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.False(t, handlerCalled)
}

func TestGetPrincipal(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := GetPrincipal(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	c.Set(ContextKeyPrincipal, "not a principal")
	_, err = GetPrincipal(c)
	assert.Equal(t, apperrors.CodeInternalServer, apperrors.CodeOf(err))

	want := NewPrincipal(&account.Account{ID: 5, Username: "eve", Role: presets.RoleNormal}, nil)
	c.Set(ContextKeyPrincipal, want)
	got, err := GetPrincipal(c)
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestAuthenticate_ConcurrentRequests(t *testing.T) {
	f := newMiddlewareFixture(t)
	tokens := map[string]string{
		"alice": f.token(t, "alice"),
		"mod":   f.token(t, "mod"),
		"root":  f.token(t, "root"),
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		for name, token := range tokens {
			wg.Add(1)
			go func(name, token string) {
				defer wg.Done()
				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
				p, _, err := f.run(req, nil)
				if assert.NoError(t, err) && assert.NotNil(t, p) {
					assert.Equal(t, name, p.Username())
				}
			}(name, token)
		}
	}
	wg.Wait()
}
