package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rileyhilliard/shellkit/internal/errors"
	"github.com/rileyhilliard/shellkit/pkg/shell/store"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".shellkit.yaml"
	// GlobalConfigDir is the directory under XDG_CONFIG_HOME for global config.
	GlobalConfigDir = "shellkit"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// globalConfigPath is swapped out in tests.
var globalConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, GlobalConfigDir, GlobalConfigFile)
}

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Create "+ConfigFileName+" or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}
	if err := readTasks(path, cfg); err != nil {
		return nil, err
	}

	cfg.History.Path = Expand(cfg.History.Path)
	cfg.Log.File = Expand(cfg.Log.File)
	return cfg, nil
}

// readTasks decodes the tasks section straight from YAML. Viper folds map
// keys to lower case, which would mangle task names and env variable names.
func readTasks(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check file permissions")
	}
	var raw struct {
		Tasks map[string]TaskConfig `yaml:"tasks"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}
	cfg.Tasks = raw.Tasks
	if cfg.Tasks == nil {
		cfg.Tasks = make(map[string]TaskConfig)
	}
	return nil
}

// setDefaults mirrors DefaultConfig so keys missing from the file keep
// their defaults after Unmarshal.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("prompt.delimiter", def.Prompt.Delimiter)
	v.SetDefault("prompt.color", def.Prompt.Color)
	v.SetDefault("history.store", def.History.Store)
	v.SetDefault("history.max", def.History.Max)
	v.SetDefault("history.key", def.History.Key)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.max_age_days", def.Log.MaxAgeDays)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .shellkit.yaml in current directory
// 3. .shellkit.yaml in parent directories (stops at git root or home)
// 4. $XDG_CONFIG_HOME/shellkit/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	if path := filepath.Join(cwd, ConfigFileName); exists(path) {
		return path, nil
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for !exists(filepath.Join(dir, ".git")) {
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && parent == home) {
			break
		}
		dir = parent

		if path := filepath.Join(dir, ConfigFileName); exists(path) {
			return path, nil
		}
	}

	if global := globalConfigPath(); exists(global) {
		return global, nil
	}
	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if
// none exists. The returned path is empty when defaults were used.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return DefaultConfig(), "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// HistoryStore opens the store named by history.store.
func (c *Config) HistoryStore() (store.Store, error) {
	kind, err := store.ParseKind(c.History.Store)
	if err != nil {
		return nil, err
	}
	return store.Open(kind, c.History.Path)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
