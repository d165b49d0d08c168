package configs

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend.test/app/v1/api")

	env, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, 800*time.Millisecond, env.QtyDebounce)
	assert.Equal(t, 15*time.Second, env.BackendTimeout)
	assert.Equal(t, "mysql", env.DBDriver)
	assert.True(t, env.IsDev())
}

func TestLoadEnvRequiresBackend(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")
	os.Unsetenv("BACKEND_BASE_URL")

	_, err := LoadEnv()
	require.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLogLevel("loud"))
}

func TestGenerateAndLoadSessionKeys(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), ".env.new_keys")
	require.NoError(t, GenerateSessionKeys(&out, path))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(written))

	env := ENV{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		k, v, _ := strings.Cut(line, "=")
		switch k {
		case "APP_AUTH_KEY":
			env.AppAuthKey = v
		case "APP_ENC_KEY":
			env.AppEncKey = v
		case "CSRF_KEY":
			env.CSRFKey = v
		}
	}

	keys, err := LoadSessionKeys(env)
	require.NoError(t, err)
	assert.Len(t, keys.AuthKey, 64)
	assert.Len(t, keys.EncKey, 32)
	assert.Len(t, keys.CSRFKey, 32)
	assert.Len(t, keys.Pairs(), 2)
}

func TestLoadSessionKeysRejectsBadEncKey(t *testing.T) {
	_, err := LoadSessionKeys(ENV{AppAuthKey: "YWJj", AppEncKey: "YWJj"})
	require.Error(t, err)
}
