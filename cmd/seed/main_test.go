package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeedFile(t *testing.T) {
	t.Run("DevSeed", func(t *testing.T) {
		seed, err := readSeedFile(filepath.Join("..", "..", "config", "seed.dev.yaml"))
		require.NoError(t, err)
		assert.Len(t, seed.Accounts, 3)
		assert.Equal(t, "owner", seed.Accounts[0].Role)
		require.Len(t, seed.Items, 3)
		assert.Equal(t, int32(3), seed.Items[0].Quantity)
		require.Len(t, seed.Tickets, 2)
		assert.Equal(t, 10, seed.Tickets[1].DaysAgo)
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := readSeedFile(filepath.Join(t.TempDir(), "none.yaml"))
		assert.ErrorContains(t, err, "failed to read seed file")
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("accounts: [\n"), 0600))
		_, err := readSeedFile(path)
		assert.ErrorContains(t, err, "failed to parse seed file")
	})
}
