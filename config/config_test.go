package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AndreeJait/email-storm/loggerw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataDir(t *testing.T) {
	home := func() (string, error) { return "/home/al", nil }
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}

	tests := []struct {
		name string
		goos string
		env  map[string]string
		want string
	}{
		{name: "windows localappdata", goos: "windows", env: map[string]string{"LOCALAPPDATA": `C:\Users\al\AppData\Local`}, want: filepath.Join(`C:\Users\al\AppData\Local`, AppDirName)},
		{name: "windows fallback", goos: "windows", want: filepath.Join("/home/al", "AppData", "Local", AppDirName)},
		{name: "xdg", goos: "linux", env: map[string]string{"XDG_DATA_HOME": "/data"}, want: filepath.Join("/data", AppDirName)},
		{name: "linux fallback", goos: "linux", want: filepath.Join("/home/al", ".local", "share", AppDirName)},
		{name: "darwin fallback", goos: "darwin", want: filepath.Join("/home/al", ".local", "share", AppDirName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataDir(tt.goos, env(tt.env), home))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults without file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("APP_MODE", "")
		t.Setenv("DATA_DIR", dir)

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "127.0.0.1:8000", cfg.Server.Address())
		assert.Equal(t, StoreFile, cfg.Store.Driver)
		assert.Equal(t, filepath.Join(dir, "email_configs.json"), cfg.StorePath())
		assert.Equal(t, 60*time.Second, cfg.Campaign.SendTimeout)
	})

	t.Run("yaml then env", func(t *testing.T) {
		dir := t.TempDir()
		yaml := `
server:
  port: 9001
campaign:
  pacing_min: 1s
  pacing_max: 3s
  concurrent: true
store:
  driver: redis
license:
  enforce: true
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.production.yaml"), []byte(yaml), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LICENSE_SECRET=from-dotenv\n"), 0o600))
		t.Setenv("APP_MODE", "production")
		t.Setenv("DATA_DIR", dir)
		t.Setenv("HTTP_HOST", "0.0.0.0")
		t.Setenv("REDIS_ADDR", "cache:6380")
		t.Cleanup(func() { os.Unsetenv("LICENSE_SECRET") })

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "0.0.0.0:9001", cfg.Server.Address())
		assert.Equal(t, time.Second, cfg.Campaign.PacingMin)
		assert.Equal(t, 3*time.Second, cfg.Campaign.PacingMax)
		assert.True(t, cfg.Campaign.Concurrent)
		assert.Equal(t, StoreRedis, cfg.Store.Driver)
		assert.Equal(t, "cache:6380", cfg.Store.Redis.Addr())
		assert.Equal(t, "from-dotenv", cfg.License.Secret)
		assert.True(t, cfg.License.Enforce)
		// untouched by the file
		assert.Equal(t, 5*time.Second, cfg.Server.ShutdownGrace)
	})

	t.Run("invalid", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.local.yaml"), []byte("store:\n  driver: mongo\n"), 0o600))
		t.Setenv("APP_MODE", "local")
		t.Setenv("DATA_DIR", dir)

		_, err := Load(dir)
		assert.ErrorContains(t, err, "store.driver")
	})
}

func TestConfig_LogOption(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/var/lib/mailstorm"

	opt := cfg.LogOption()
	assert.Equal(t, filepath.Join("/var/lib/mailstorm", "app.log"), opt.LogFilePath)
	assert.Equal(t, loggerw.Info, opt.Level)
	assert.Equal(t, 5, opt.MaxSize)

	cfg.Logger.FileName = ""
	assert.Empty(t, cfg.LogOption().LogFilePath)
}
