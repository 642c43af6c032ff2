package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rogerio-castellano/admin-console/internal/auth"
	"github.com/rogerio-castellano/admin-console/internal/logging"
	"github.com/rogerio-castellano/admin-console/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUsers mimics the filtered query of the record store.
type fakeUsers struct {
	users []models.User
	err   error
	calls int
}

func (f *fakeUsers) Login(_ context.Context, username, password string) ([]models.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []models.User
	for _, u := range f.users {
		if u.Username == username && u.Password == password && u.IsActive() {
			out = append(out, u)
		}
	}
	return out, nil
}

func adminBackend() *fakeUsers {
	return &fakeUsers{users: []models.User{
		{ID: 1, Username: "admin", Password: "correct", Correo: "admin@x.pe", Activo: models.Bool(true)},
		{ID: 2, Username: "off", Password: "pw", Activo: models.Bool(false)},
	}}
}

func openStore(t *testing.T, storage Storage, users Authenticator) *Store {
	t.Helper()
	s, err := Open(context.Background(), storage, Options{Users: users, Logger: logging.Nop()})
	require.NoError(t, err)
	return s
}

func TestLogin_WrongPassword(t *testing.T) {
	storage := NewMemoryStorage()
	s := openStore(t, storage, adminBackend())

	ok := s.Login(context.Background(), "admin", "wrong")

	assert.False(t, ok)
	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.CurrentUser())
	_, found, _ := storage.Get(context.Background(), KeyToken)
	assert.False(t, found)
}

func TestLogin_Success(t *testing.T) {
	storage := NewMemoryStorage()
	s := openStore(t, storage, adminBackend())

	ok := s.Login(context.Background(), "admin", "correct")

	require.True(t, ok)
	assert.True(t, s.LoggedIn())
	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "admin", s.CurrentUser().Username)
	assert.True(t, s.IsAdmin())

	raw, found, _ := storage.Get(context.Background(), KeyCurrentUser)
	require.True(t, found)
	assert.Contains(t, raw, `"username":"admin"`)
	assert.NotContains(t, raw, "correct")

	token, found, _ := storage.Get(context.Background(), KeyToken)
	require.True(t, found)
	assert.Equal(t, PlaceholderToken, token)
}

func TestLogin_InactiveUser(t *testing.T) {
	s := openStore(t, NewMemoryStorage(), adminBackend())
	assert.False(t, s.Login(context.Background(), "off", "pw"))
}

func TestLogin_SeveralMatches(t *testing.T) {
	users := &fakeUsers{users: []models.User{
		{ID: 1, Username: "dup", Password: "x"},
		{ID: 2, Username: "dup", Password: "x"},
	}}
	s := openStore(t, NewMemoryStorage(), users)

	assert.False(t, s.Login(context.Background(), "dup", "x"))
	assert.False(t, s.LoggedIn())
}

func TestLogin_BackendFailure(t *testing.T) {
	s := openStore(t, NewMemoryStorage(), &fakeUsers{err: errors.New("connection refused")})

	assert.False(t, s.Login(context.Background(), "admin", "correct"))
	assert.False(t, s.LoggedIn())
}

func TestLogout_ClearsStorageAndState(t *testing.T) {
	storage := NewMemoryStorage()
	s := openStore(t, storage, adminBackend())
	require.True(t, s.Login(context.Background(), "admin", "correct"))

	require.NoError(t, s.Logout(context.Background()))

	assert.False(t, s.LoggedIn())
	assert.Nil(t, s.CurrentUser())
	for _, key := range []string{KeyCurrentUser, KeyToken} {
		_, found, _ := storage.Get(context.Background(), key)
		assert.False(t, found, key)
	}
}

func TestRehydrate_StoredUserIsEnough(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(context.Background(), KeyCurrentUser, `{"id":1,"username":"admin"}`)

	s := openStore(t, storage, adminBackend())

	assert.True(t, s.LoggedIn())
	require.NotNil(t, s.CurrentUser())
	assert.Equal(t, "admin", s.CurrentUser().Username)
}

func TestRehydrate_TokenOnly(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(context.Background(), KeyToken, "anything")

	s := openStore(t, storage, adminBackend())

	assert.True(t, s.LoggedIn())
	assert.Nil(t, s.CurrentUser())
}

func TestRehydrate_Empty(t *testing.T) {
	s := openStore(t, NewMemoryStorage(), adminBackend())
	assert.False(t, s.LoggedIn())
}

func TestRehydrate_VerifyTokenRejectsPlaceholder(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Set(context.Background(), KeyCurrentUser, `{"id":1,"username":"admin"}`)
	storage.Set(context.Background(), KeyToken, PlaceholderToken)

	s, err := Open(context.Background(), storage, Options{
		Users:       adminBackend(),
		Tokens:      auth.NewTokenIssuer("secret", time.Hour),
		VerifyToken: true,
		Logger:      logging.Nop(),
	})
	require.NoError(t, err)

	assert.False(t, s.LoggedIn())
	_, found, _ := storage.Get(context.Background(), KeyCurrentUser)
	assert.False(t, found)
}

func TestRehydrate_VerifyTokenAcceptsIssued(t *testing.T) {
	storage := NewMemoryStorage()
	opts := Options{
		Users:       adminBackend(),
		Tokens:      auth.NewTokenIssuer("secret", time.Hour),
		VerifyToken: true,
		Logger:      logging.Nop(),
	}
	first, err := Open(context.Background(), storage, opts)
	require.NoError(t, err)
	require.True(t, first.Login(context.Background(), "admin", "correct"))

	second, err := Open(context.Background(), storage, opts)
	require.NoError(t, err)
	assert.True(t, second.LoggedIn())
}

func TestSubscribe(t *testing.T) {
	s := openStore(t, NewMemoryStorage(), adminBackend())
	ch, cancel := s.Subscribe()
	defer cancel()

	initial := <-ch
	assert.False(t, initial.LoggedIn)

	require.True(t, s.Login(context.Background(), "admin", "correct"))
	afterLogin := <-ch
	assert.True(t, afterLogin.LoggedIn)
	assert.Equal(t, "admin", afterLogin.CurrentUser.Username)

	require.NoError(t, s.Logout(context.Background()))
	afterLogout := <-ch
	assert.False(t, afterLogout.LoggedIn)
	assert.Nil(t, afterLogout.CurrentUser)
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	s := openStore(t, NewMemoryStorage(), adminBackend())
	ch, cancel := s.Subscribe()
	<-ch
	cancel()

	_, open := <-ch
	assert.False(t, open)
}

func TestFileStorage_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	fs, err := OpenFileStorage(path)
	require.NoError(t, err)

	s := openStore(t, fs, adminBackend())
	require.True(t, s.Login(context.Background(), "admin", "correct"))

	reopened, err := OpenFileStorage(path)
	require.NoError(t, err)
	again := openStore(t, reopened, adminBackend())
	assert.True(t, again.LoggedIn())
}

func TestRegistry_SeparatesSessions(t *testing.T) {
	shared := NewMemoryStorage()
	reg := NewRegistry(func(sid string) Storage {
		return WithPrefix(shared, sid+":")
	}, Options{Users: adminBackend(), Logger: logging.Nop()})

	a, err := reg.Get(context.Background(), "a")
	require.NoError(t, err)
	b, err := reg.Get(context.Background(), "b")
	require.NoError(t, err)

	require.True(t, a.Login(context.Background(), "admin", "correct"))
	assert.True(t, a.LoggedIn())
	assert.False(t, b.LoggedIn())

	again, err := reg.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, found, _ := shared.Get(context.Background(), "a:"+KeyToken)
	assert.True(t, found)
}

func TestRegistry_CleanupDropsIdleStores(t *testing.T) {
	opened := 0
	shared := NewMemoryStorage()
	reg := NewRegistry(func(sid string) Storage {
		opened++
		return WithPrefix(shared, sid+":")
	}, Options{Users: adminBackend(), Logger: logging.Nop()})
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		_, err := reg.Get(ctx, fmt.Sprintf("anon-%d", i))
		require.NoError(t, err)
	}
	a, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, a.Login(ctx, "admin", "correct"))
	w, err := reg.Get(ctx, "watched")
	require.NoError(t, err)
	_, cancel := w.Subscribe()
	defer cancel()

	now = now.Add(time.Hour)
	reg.Cleanup(30 * time.Minute)

	assert.Equal(t, 1, reg.Len())
	again, err := reg.Get(ctx, "a")
	require.NoError(t, err)
	assert.NotSame(t, a, again)
	assert.True(t, again.LoggedIn())
	assert.Equal(t, 53, opened)
}
