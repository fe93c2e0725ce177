package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Load loads the configuration from a config file or a directory holding one.
func Load(path string) (*Configuration, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs loads the configuration from the given filesystem. Values may be
// overridden by TARSH_* environment variables.
func LoadFs(fs afero.Fs, path string) (*Configuration, error) {
	// If given the directory, look for the config file inside.
	if info, err := fs.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, ConfigurationName)
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("root", DefaultRoot)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	var out Configuration
	if err := v.UnmarshalExact(&out); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	out.configFs = fs
	out.configDir = filepath.Dir(path)

	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return &out, nil
}

// Initialize writes the default configuration and sample filesystem into dir,
// existing files are left alone.
func Initialize(fs afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	configData, err := toml.Marshal(defaultConfig())
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{ConfigurationName, configData, 0644},
		{RootFSName, rootFsData, 0644},
	} {
		dst := filepath.Join(dir, f.name)

		exists, err := afero.Exists(fs, dst)
		switch {
		case err != nil:
			return nil, err
		case exists:
			logger.Info("Keeping existing file", "path", dst)
			continue
		}

		if err := afero.WriteFile(fs, dst, f.data, f.perm); err != nil {
			return nil, err
		}
		logger.Info("Wrote file", "path", dst)
	}

	return LoadFs(fs, dir)
}
