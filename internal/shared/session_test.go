package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "pulse_session", "test-secret", time.Hour, false)
}

func commitAndCookie(t *testing.T, sm *SessionManager, sess *Session) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, sm.Commit(context.Background(), rec, req, sess))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestSessionRoundTrip(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.Set("theme", "dark")
	sess.SetPrincipal([]byte(`{"id":"u-1"}`))
	cookie := commitAndCookie(t, sm, sess)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	restored, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.Equal(t, sess.ID, restored.ID)
	require.Equal(t, "dark", restored.Get("theme"))
	require.JSONEq(t, `{"id":"u-1"}`, string(restored.Principal()))
}

func TestDestroyClearsStoreAndCookie(t *testing.T) {
	sm := newTestManager(t)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.Set("k", "v")
	cookie := commitAndCookie(t, sm, sess)

	sm.Destroy(sess)
	expired := commitAndCookie(t, sm, sess)
	require.Equal(t, -1, expired.MaxAge)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	fresh, err := sm.Load(ctx, req)
	require.NoError(t, err)
	require.Empty(t, fresh.Get("k"))
}

func TestUnknownCookieYieldsFreshSession(t *testing.T) {
	sm := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pulse_session", Value: "expired-id"})

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "expired-id", sess.ID)
	require.Nil(t, sess.Principal())
}

func TestFlashQueue(t *testing.T) {
	sess := NewDetachedSession()
	require.Nil(t, sess.PopFlash())

	sess.AddFlash(FlashMessage{Kind: "info", Message: "first"})
	sess.AddFlash(FlashMessage{Kind: "error", Message: "second"})

	first := sess.PopFlash()
	require.NotNil(t, first)
	require.Equal(t, "first", first.Message)
	second := sess.PopFlash()
	require.NotNil(t, second)
	require.Equal(t, "error", second.Kind)
	require.Nil(t, sess.PopFlash())
}
