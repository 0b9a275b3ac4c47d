package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailquest/trailquest-go/pkg/authtest"
	"github.com/trailquest/trailquest-go/pkg/store"
)

func TestRootCommand_UnknownCommand(t *testing.T) {
	root := NewRootCommand()

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"trailquest", "teleport"}

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRootCommand_HasAllSubcommands(t *testing.T) {
	root := NewRootCommand()
	for _, name := range []string{"register", "login", "logout", "whoami", "quests", "leaderboard"} {
		assert.Contains(t, root.Subcommands, name)
	}
}

func TestLoginLogout_EndToEnd(t *testing.T) {
	srv := authtest.NewServer()
	defer srv.Close()
	srv.Seed("alice", "alice@example.com", "s3cret")

	storePath := filepath.Join(t.TempDir(), "session.json")
	t.Setenv("TRAILQUEST_API_URL", srv.URL())
	t.Setenv("TRAILQUEST_STORE_BACKEND", "file")
	t.Setenv("TRAILQUEST_STORE_PATH", storePath)
	t.Setenv("TRAILQUEST_SECRET", "s3cret")
	t.Setenv("TRAILQUEST_LOG_LEVEL", "error")

	require.NoError(t, runLogin("alice"))
	assert.Equal(t, 1, srv.LoginCalls())

	// the session was persisted
	backend, err := store.NewFileStore(storePath)
	require.NoError(t, err)
	value, err := backend.Get(store.KeyAccessCredential)
	require.NoError(t, err)
	assert.NotEmpty(t, value)

	// whoami restores the persisted session without another login
	require.NoError(t, runWhoami())
	assert.Equal(t, 1, srv.LoginCalls())

	require.NoError(t, runLogout())
	assert.Equal(t, 1, srv.LogoutCalls())
	value, err = backend.Get(store.KeyAccessCredential)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestLogin_BadSecretSurfacesServerMessage(t *testing.T) {
	srv := authtest.NewServer()
	defer srv.Close()
	srv.Seed("alice", "alice@example.com", "s3cret")

	t.Setenv("TRAILQUEST_API_URL", srv.URL())
	t.Setenv("TRAILQUEST_STORE_BACKEND", "memory")
	t.Setenv("TRAILQUEST_SECRET", "wrong")

	err := runLogin("alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}
