package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvDefaults(t *testing.T) {
	env, err := NewEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":9000", env.ServerAddress)
	assert.Equal(t, 10, env.ContextTimeout)
	assert.Equal(t, "music_sheets_db", env.DatabaseName())
	assert.Equal(t, "pieces_metadata", env.MongoPiecesCollection)
	assert.Equal(t, 1.0, env.ScrappingDelay)
	assert.Zero(t, env.MaxPieces)
	assert.False(t, env.HealthcheckDB)
	assert.Empty(t, env.PexelsAPIKey)
	assert.Equal(t, "claude-sonnet-4-5", env.LLMNotesFallbackModel)
}

func TestNewEnvFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MONGO_DB=from_file\nMAX_PIECES=5\nHEALTHCHECK_DB=true\nSCRAPPING_DELAY=0.5\n"), 0o600))
	t.Setenv("MAX_PIECES", "7")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	env, err := NewEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "from_file", env.DatabaseName())
	assert.Equal(t, 7, env.MaxPieces, "environment wins over the file")
	assert.True(t, env.HealthcheckDB)
	assert.Equal(t, 0.5, env.ScrappingDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, env.AllowedOrigins())

	t.Setenv("MONGO_CURRENT_DB", "current")
	env, err = NewEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "current", env.DatabaseName())
}
