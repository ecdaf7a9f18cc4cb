package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleastore/storefront/internal/api"
	"github.com/oleastore/storefront/internal/logging"
)

type routeRecorder struct {
	routes []string
}

func (r *routeRecorder) Navigate(route string) { r.routes = append(r.routes, route) }

func newTestStore(t *testing.T, ks *Keystore) (*Store, *routeRecorder) {
	t.Helper()
	nav := &routeRecorder{}
	s, err := NewStore(ks, nav, logging.New("error"))
	require.NoError(t, err)
	return s, nav
}

func testUser() api.User {
	return api.User{ID: 7, Username: "ana", Email: "ana@example.com", Role: "user"}
}

func TestLoginPersistsSession(t *testing.T) {
	ks := openTestKeystore(t)
	s, _ := newTestStore(t, ks)

	require.False(t, s.IsLoggedIn())
	require.NoError(t, s.Login(testUser(), "acc-1", "ref-1"))

	assert.True(t, s.IsLoggedIn())
	assert.Equal(t, "acc-1", s.AccessToken())
	assert.Equal(t, "ref-1", s.RefreshToken())

	for key, want := range map[string]string{
		keyIsLoggedIn:   "true",
		keyAccessToken:  "acc-1",
		keyRefreshToken: "ref-1",
	} {
		v, ok, err := ks.Get(key)
		require.NoError(t, err)
		require.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}
	raw, ok, err := ks.Get(keyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, `"username":"ana"`)
}

func TestRehydrateFromKeystore(t *testing.T) {
	ks := openTestKeystore(t)
	first, _ := newTestStore(t, ks)
	require.NoError(t, first.Login(testUser(), "acc-1", "ref-1"))

	// A second store over the same keystore is the restarted process.
	second, _ := newTestStore(t, ks)
	assert.True(t, second.IsLoggedIn())
	assert.Equal(t, "acc-1", second.AccessToken())
	assert.Equal(t, "ref-1", second.RefreshToken())
	require.NotNil(t, second.User())
	assert.Equal(t, "ana", second.User().Username)
}

func TestRehydrateCorruptUserClearsSession(t *testing.T) {
	ks := openTestKeystore(t)
	require.NoError(t, ks.Set(keyIsLoggedIn, "true"))
	require.NoError(t, ks.Set(keyUser, "{not json"))
	require.NoError(t, ks.Set(keyAccessToken, "acc"))
	require.NoError(t, ks.Set(keyRefreshToken, "ref"))

	s, _ := newTestStore(t, ks)
	assert.False(t, s.IsLoggedIn())

	_, ok, err := ks.Get(keyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRehydrateWithoutAccessTokenStaysLoggedOut(t *testing.T) {
	ks := openTestKeystore(t)
	require.NoError(t, ks.Set(keyIsLoggedIn, "true"))
	require.NoError(t, ks.Set(keyUser, `{"id":7,"username":"ana","role":"user"}`))
	require.NoError(t, ks.Set(keyAccessToken, ""))

	s, _ := newTestStore(t, ks)
	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.User())
}

func TestLogoutClearsEverythingAndNavigatesHome(t *testing.T) {
	ks := openTestKeystore(t)
	s, nav := newTestStore(t, ks)
	require.NoError(t, s.Login(testUser(), "acc", "ref"))

	hookRan := false
	s.OnLogout(func() { hookRan = true })

	s.Logout()

	assert.False(t, s.IsLoggedIn())
	assert.Nil(t, s.User())
	assert.Empty(t, s.AccessToken())
	assert.True(t, hookRan)
	assert.Equal(t, []string{RouteHome}, nav.routes)

	for _, key := range []string{keyIsLoggedIn, keyUser, keyAccessToken, keyRefreshToken} {
		_, ok, err := ks.Get(key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
}

func TestInvalidateNavigatesToLogin(t *testing.T) {
	ks := openTestKeystore(t)
	s, nav := newTestStore(t, ks)
	require.NoError(t, s.Login(testUser(), "acc", "ref"))

	s.Invalidate()

	assert.False(t, s.IsLoggedIn())
	assert.Equal(t, []string{RouteLogin}, nav.routes)
}

func TestSetAccessTokenPersists(t *testing.T) {
	ks := openTestKeystore(t)
	s, _ := newTestStore(t, ks)
	require.NoError(t, s.Login(testUser(), "old", "ref"))

	require.NoError(t, s.SetAccessToken("new"))
	assert.Equal(t, "new", s.AccessToken())

	v, ok, err := ks.Get(keyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", v)
}

func TestIsAdminDerivedFromRole(t *testing.T) {
	ks := openTestKeystore(t)
	s, _ := newTestStore(t, ks)

	assert.False(t, s.IsAdmin())

	require.NoError(t, s.Login(testUser(), "acc", "ref"))
	assert.False(t, s.IsAdmin())

	admin := testUser()
	admin.Role = "admin"
	require.NoError(t, s.Login(admin, "acc", "ref"))
	assert.True(t, s.IsAdmin())

	s.Logout()
	assert.False(t, s.IsAdmin())
}

func TestUserReturnsCopy(t *testing.T) {
	ks := openTestKeystore(t)
	s, _ := newTestStore(t, ks)
	require.NoError(t, s.Login(testUser(), "acc", "ref"))

	u := s.User()
	require.NotNil(t, u)
	u.Role = "admin"

	assert.False(t, s.IsAdmin())
}
