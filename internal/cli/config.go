package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/presales/internal/paths"
)

const (
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir  = "data_dir"
	cfgKeyHTTPAddr = "http_addr"
)

// configHeader documents the keys init does not set.
const configHeader = `# presales configuration
#
# data_dir:  directory holding opportunities.db (default: working directory)
# http_addr: listen address for "presales serve" (default: 127.0.0.1:8501)
`

// configFile is the structure init writes to config.yaml.
type configFile struct {
	DataDir  string `yaml:"data_dir,omitempty"`
	HTTPAddr string `yaml:"http_addr,omitempty"`
}

// loadConfig reads config.yaml from configDir using Viper. A missing file or
// directory is not an error; every key then reads as empty.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType(configFileType)

	path := configPath(configDir)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return v, nil
	} else if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// writeConfigIfMissing creates config.yaml recording dataDir if the file does
// not exist. An existing file is left untouched. Reports whether it wrote.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{DataDir: dataDir}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	data = append([]byte(configHeader), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// settings holds the resolved locations for one command run.
type settings struct {
	configDir string
	dataDir   string
	httpAddr  string
}

// resolve applies the precedence chains for every location: flag, then
// config.yaml, then environment, then default.
func (a *app) resolve() (settings, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return settings{}, sysErr("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, sysErr("%w", err)
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, sysErr("resolve data dir: %w", err)
	}
	return settings{
		configDir: configDir,
		dataDir:   dataDir,
		httpAddr:  v.GetString(cfgKeyHTTPAddr),
	}, nil
}

func configPath(configDir string) string {
	return filepath.Join(configDir, configFileExt)
}
