package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverridesOnlySetVariables(t *testing.T) {
	t.Setenv("GOPHNOTES_HTTP_ADDR", ":9999")
	t.Setenv("GOPHNOTES_SESSION_VALIDITY", "30m")
	t.Setenv("GOPHNOTES_INACTIVE_ACCOUNT_DAYS", "7")

	c := &Config{}
	c.LoadDefaults()
	parseEnv(c, "")

	assert.Equal(t, ":9999", c.EndpointAddrHTTP)
	assert.Equal(t, 30*time.Minute, c.SessionValidityDuration)
	assert.Equal(t, 7, c.InactiveAccountDays)
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "info", c.LogLevel)
}

func TestParseEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GOPHNOTES_S3_BUCKET=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("GOPHNOTES_S3_BUCKET") })

	c := &Config{}
	parseEnv(c, path)

	assert.Equal(t, "from-dotenv", c.S3Bucket)
}

func TestParseEnv_MissingDotenvIgnored(t *testing.T) {
	c := &Config{}
	require.NotPanics(t, func() { parseEnv(c, filepath.Join(t.TempDir(), "absent.env")) })
}

func TestParseEnv_BadValuePanics(t *testing.T) {
	t.Setenv("GOPHNOTES_INACTIVE_ACCOUNT_DAYS", "many")

	c := &Config{}
	require.Panics(t, func() { parseEnv(c, "") })
}
