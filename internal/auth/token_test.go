package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/Priyanshux26/Gym-management-system/internal/domain"
	"github.com/Priyanshux26/Gym-management-system/internal/persistence/memory"
)

var testConfig = Config{Secret: "test-secret", Issuer: "gym.office", TTL: time.Hour}

func TestIssueAndParse(t *testing.T) {
	token, issued, err := Issue(domain.User{ID: 7, Username: "desk", Role: "Receptionist"}, testConfig, time.Now())
	require.NoError(t, err)

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "7", claims.Subject)
	require.Equal(t, "desk", claims.Username)
	require.Equal(t, RoleReceptionist, claims.Role)
	require.Equal(t, issued.TokenID, claims.TokenID)
	require.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestParseRejectsBadTokens(t *testing.T) {
	user := domain.User{ID: 1, Username: "admin", Role: "admin"}

	_, err := Parse("", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)

	token, _, err := Issue(user, Config{Secret: "other", Issuer: testConfig.Issuer}, time.Now())
	require.NoError(t, err)
	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	token, _, err = Issue(user, Config{Secret: testConfig.Secret, Issuer: "someone-else"}, time.Now())
	require.NoError(t, err)
	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	token, _, err = Issue(user, testConfig, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = Parse(token, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRejectsUnknownRole(t *testing.T) {
	_, _, err := Issue(domain.User{ID: 1, Username: "x", Role: "janitor"}, testConfig, time.Now())
	require.Error(t, err)
}

func TestCapabilities(t *testing.T) {
	require.True(t, CanViewDashboard(RoleAdmin))
	require.True(t, CanViewDashboard(RoleReceptionist))
	require.True(t, CanManageRecords(RoleReceptionist))
	require.True(t, CanViewReports(RoleAdmin))
	require.False(t, CanViewReports(RoleReceptionist))
	require.False(t, CanViewDashboard(Role("")))
}

func TestMiddleware(t *testing.T) {
	revoked := NewMemoryRevocationList()
	var seen Role
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CurrentRole(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := NewMiddleware(testConfig, revoked).Wrap(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	token, claims, err := Issue(domain.User{ID: 1, Username: "admin", Role: "admin"}, testConfig, time.Now())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, RoleAdmin, seen)

	require.NoError(t, revoked.Revoke(context.Background(), claims.TokenID, claims.ExpiresAt))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore()
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	_, err = users.UpsertUser(ctx, domain.User{Username: "admin", PasswordHash: hash, Role: "admin"})
	require.NoError(t, err)

	revoked := NewMemoryRevocationList()
	authn := NewAuthenticator(users, testConfig, revoked)

	_, _, err = authn.Login(ctx, "admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = authn.Login(ctx, "ghost", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	token, claims, err := authn.Login(ctx, " admin ", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, RoleAdmin, claims.Role)

	require.NoError(t, authn.Logout(ctx, claims))
	isRevoked, err := revoked.IsRevoked(ctx, claims.TokenID)
	require.NoError(t, err)
	require.True(t, isRevoked)
}

func TestRedisRevocationList(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	list, err := NewRedisRevocationList("redis://" + mr.Addr())
	require.NoError(t, err)
	defer list.Close()
	require.NoError(t, list.Ping(ctx))

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	require.NoError(t, list.Revoke(ctx, "jti-old", time.Now().Add(-time.Minute)))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-old")
	require.NoError(t, err)
	require.False(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pa55")
	require.NoError(t, err)
	require.NotEqual(t, "pa55", hash)
	require.True(t, CheckPassword(hash, "pa55"))
	require.False(t, CheckPassword(hash, "pa56"))
}
