package auth

import (
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func cookieValues(cookies []*http.Cookie) map[string]string {
	out := map[string]string{}
	for _, c := range cookies {
		out[c.Name] = c.Value
	}
	return out
}

func TestCookieStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	api := mustURL(t, "https://api.salonathome.in/auth/login")

	store, err := NewCookieStore(dir)
	require.NoError(t, err)
	store.SetCookies(api, []*http.Cookie{
		{Name: "access_token", Value: "a1", Path: "/", HttpOnly: true, MaxAge: 900},
		{Name: "refresh_token", Value: "r1", Path: "/", HttpOnly: true, MaxAge: 86400},
	})
	require.NoError(t, store.Save())

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	reopened, err := NewCookieStore(dir)
	require.NoError(t, err)
	got := cookieValues(reopened.Cookies(mustURL(t, "https://api.salonathome.in/bookings")))

	assert.Equal(t, map[string]string{"access_token": "a1", "refresh_token": "r1"}, got)
}

func TestCookieStore_FileIsNotPlaintext(t *testing.T) {
	store, err := NewCookieStore(t.TempDir())
	require.NoError(t, err)
	store.SetCookies(mustURL(t, "https://api.salonathome.in/"), []*http.Cookie{
		{Name: "refresh_token", Value: "super-secret", Path: "/", MaxAge: 60},
	})
	require.NoError(t, store.Save())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret")
}

func TestCookieStore_ServerDeletionRemovesCookie(t *testing.T) {
	dir := t.TempDir()
	api := mustURL(t, "https://api.salonathome.in/")

	store, err := NewCookieStore(dir)
	require.NoError(t, err)
	store.SetCookies(api, []*http.Cookie{{Name: "access_token", Value: "a1", Path: "/", MaxAge: 900}})
	store.SetCookies(api, []*http.Cookie{{Name: "access_token", Value: "", Path: "/", MaxAge: -1}})
	require.NoError(t, store.Save())

	reopened, err := NewCookieStore(dir)
	require.NoError(t, err)
	assert.Empty(t, reopened.Cookies(api))
}

func TestCookieStore_ReplacesCookieByName(t *testing.T) {
	api := mustURL(t, "https://api.salonathome.in/")
	store, err := NewCookieStore(t.TempDir())
	require.NoError(t, err)

	store.SetCookies(api, []*http.Cookie{{Name: "access_token", Value: "old", Path: "/", MaxAge: 900}})
	store.SetCookies(api, []*http.Cookie{{Name: "access_token", Value: "new", Path: "/", MaxAge: 900}})

	assert.Len(t, store.origins[originKey(api)], 1)
	assert.Equal(t, "new", cookieValues(store.Cookies(api))["access_token"])
}

func TestCookieStore_DropsExpiredOnLoad(t *testing.T) {
	dir := t.TempDir()
	api := mustURL(t, "https://api.salonathome.in/")

	store, err := NewCookieStore(dir)
	require.NoError(t, err)
	store.SetCookies(api, []*http.Cookie{{Name: "access_token", Value: "a1", Path: "/", MaxAge: 60}})
	require.NoError(t, store.Save())

	reopened, err := NewCookieStore(dir)
	require.NoError(t, err)
	reopened.now = func() time.Time { return time.Now().Add(time.Hour) }
	reopened.origins = map[string][]storedCookie{}
	require.NoError(t, reopened.load())

	assert.Empty(t, reopened.origins)
}

func TestCookieStore_Clear(t *testing.T) {
	api := mustURL(t, "https://api.salonathome.in/")
	store, err := NewCookieStore(t.TempDir())
	require.NoError(t, err)
	store.SetCookies(api, []*http.Cookie{{Name: "access_token", Value: "a1", Path: "/", MaxAge: 60}})
	require.NoError(t, store.Save())

	require.NoError(t, store.Clear())

	assert.Empty(t, store.Cookies(api))
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Clear(), "clearing twice is fine")
}

func TestCookieStore_UnreadableFileStartsClean(t *testing.T) {
	dir := t.TempDir()
	store, err := NewCookieStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(store.Path(), []byte("not encrypted"), 0600))

	reopened, err := NewCookieStore(dir)
	require.NoError(t, err)
	assert.Empty(t, reopened.origins)
}
