package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContext struct {
	state string
	err   error
	saved []string
}

func (f *fakeContext) StorageState(path ...string) (*playwright.StorageState, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(path) > 0 {
		f.saved = append(f.saved, path[0])
		if err := os.WriteFile(path[0], []byte(f.state), 0o644); err != nil {
			return nil, err
		}
	}
	return &playwright.StorageState{}, nil
}

const adminState = `{
  "cookies": [{"name": "sid", "value": "abc", "domain": "localhost", "path": "/", "expires": -1, "httpOnly": true, "secure": false, "sameSite": "Lax"}],
  "origins": [{"origin": "http://localhost", "localStorage": [{"name": "theme", "value": "dark"}]}]
}`

func TestStore_SaveLoadDelete(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "sessions"))
	bc := &fakeContext{state: adminState}

	path, err := store.Save(bc, "Admin User")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Dir, "admin-user.json"), path)
	assert.Equal(t, []string{path}, bc.saved)
	assert.True(t, store.Exists("Admin User"))

	state, err := store.Load("Admin User")
	require.NoError(t, err)
	require.Len(t, state.Cookies, 1)
	assert.Equal(t, "sid", state.Cookies[0].Name)
	require.Len(t, state.Origins, 1)
	assert.Equal(t, "theme", state.Origins[0].LocalStorage[0].Name)

	names, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"admin-user"}, names)

	require.NoError(t, store.Delete("Admin User"))
	assert.False(t, store.Exists("Admin User"))
	assert.NoError(t, store.Delete("Admin User"))
}

func TestStore_Errors(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load("ghost")
	assert.ErrorContains(t, err, "не найдена")

	_, err = store.Save(&fakeContext{err: errors.New("context closed")}, "x")
	assert.ErrorContains(t, err, "context closed")

	require.NoError(t, os.WriteFile(store.Path("broken"), []byte("{"), 0o644))
	_, err = store.Load("broken")
	assert.ErrorContains(t, err, "повреждена")
}

func TestStore_ListMissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "none"))
	names, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_CyrillicNames(t *testing.T) {
	store := NewStore(t.TempDir())

	assert.NotEqual(t, store.Path("админ"), store.Path("гость"))
	assert.Equal(t, filepath.Join(store.Dir, "админ.json"), store.Path("Админ"))

	_, err := store.Save(&fakeContext{state: adminState}, "админ")
	require.NoError(t, err)
	assert.True(t, store.Exists("админ"))
	assert.False(t, store.Exists("гость"))
}
