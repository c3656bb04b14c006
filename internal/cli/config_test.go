package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, dir string)
	}{
		{
			name: "missing file reads as empty",
			check: func(t *testing.T, dir string) {
				v, err := loadConfig(dir)
				require.NoError(t, err)
				assert.Empty(t, v.GetString(cfgKeyDataDir))
			},
		},
		{
			name:    "keys are read",
			content: "data_dir: /srv/presales\nhttp_addr: 0.0.0.0:8080\n",
			check: func(t *testing.T, dir string) {
				v, err := loadConfig(dir)
				require.NoError(t, err)
				assert.Equal(t, "/srv/presales", v.GetString(cfgKeyDataDir))
				assert.Equal(t, "0.0.0.0:8080", v.GetString(cfgKeyHTTPAddr))
			},
		},
		{
			name:    "malformed file is an error",
			content: "data_dir: [unclosed\n",
			check: func(t *testing.T, dir string) {
				_, err := loadConfig(dir)
				assert.Error(t, err)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if tt.content != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(tt.content), 0o644))
			}
			tt.check(t, dir)
		})
	}
}

func TestWriteConfigIfMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileExt)

	written, err := writeConfigIfMissing(path, "/data")
	require.NoError(t, err)
	assert.True(t, written)

	v, err := loadConfig(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, "/data", v.GetString(cfgKeyDataDir))

	written, err = writeConfigIfMissing(path, "/other")
	require.NoError(t, err)
	assert.False(t, written)
	v, err = loadConfig(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, "/data", v.GetString(cfgKeyDataDir))
}

func TestResolvePrecedence(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, configFileExt),
		[]byte("data_dir: /from/config\nhttp_addr: 127.0.0.1:9999\n"), 0o644))
	t.Setenv("PRESALES_DATA_DIR", "/from/env")

	a := &app{flags: rootFlags{configDir: configDir}}
	s, err := a.resolve()
	require.NoError(t, err)
	assert.Equal(t, configDir, s.configDir)
	assert.Equal(t, "/from/config", s.dataDir)
	assert.Equal(t, "127.0.0.1:9999", s.httpAddr)

	a.flags.dataDir = "/from/flag"
	s, err = a.resolve()
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", s.dataDir)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitSysError, exitCode(sysErr("boom")))
	assert.Equal(t, exitUserError, exitCode(os.ErrNotExist))
}
