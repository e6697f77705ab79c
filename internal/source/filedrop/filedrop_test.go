package filedrop

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnector_FetchFiltersByTerm(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice.txt"), []byte("Binance signals, call +91 98765 43210"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bob.txt"), []byte("nothing relevant here"), 0o600))

	c, err := New(dir)
	require.NoError(t, err)

	items, err := c.Fetch(context.Background(), "binance")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "alice", items[0].Author)

	all, err := c.Fetch(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestConnector_MissingDirIsEmptyFeed(t *testing.T) {
	t.Parallel()

	c, err := New(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)

	items, err := c.Fetch(context.Background(), "anything")
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestNew_RequiresDir(t *testing.T) {
	t.Parallel()

	_, err := New("")
	require.Error(t, err)
}
