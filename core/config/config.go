package config

import (
	"bytes"
	_ "embed"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

var (
	//go:embed default/config.toml
	defaultConfigData []byte

	//go:embed default/root_fs.tar.gz
	rootFsData []byte
)

const (
	ConfigurationName = "config.toml"
	RootFSName        = "root_fs.tar.gz"
	DefaultRoot       = "/tmp/filesystem"
	EnvPrefix         = "TARSH"
)

type Configuration struct {
	configFs  afero.Fs
	configDir string

	// User is the name shown in the prompt.
	User string `mapstructure:"user" toml:"user" validate:"required"`
	// Filesystem is the path to the tar or tar.gz archive to extract,
	// relative paths are resolved against the config file's directory.
	Filesystem string `mapstructure:"filesystem" toml:"filesystem" validate:"required"`
	// Root is the staging directory the archive is extracted into.
	Root string `mapstructure:"root" toml:"root" validate:"required,notroot"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		return name
	})
	// The staging directory is extracted over, so it can't be the host's /.
	validate.RegisterValidation("notroot", func(fl validator.FieldLevel) bool {
		abs, err := filepath.Abs(fl.Field().String())
		return err == nil && filepath.Dir(abs) != abs
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// FilesystemPath returns the location of the filesystem archive.
func (c *Configuration) FilesystemPath() string {
	if filepath.IsAbs(c.Filesystem) {
		return c.Filesystem
	}
	return filepath.Join(c.configDir, c.Filesystem)
}

// OpenFilesystem opens the backing filesystem archive.
func (c *Configuration) OpenFilesystem() (afero.File, error) {
	return c.fs().Open(c.FilesystemPath())
}

// RootPath returns the absolute staging directory.
func (c *Configuration) RootPath() (string, error) {
	return filepath.Abs(c.Root)
}

func defaultConfig() *Configuration {
	var out Configuration
	decoder := toml.NewDecoder(bytes.NewReader(defaultConfigData))
	if err := decoder.DisallowUnknownFields().Decode(&out); err != nil {
		panic(err)
	}
	return &out
}
