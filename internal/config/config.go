// Package config loads the package's ambient defaults (server port, logging
// flags, default formatter verbosity/flavor) from a YAML file, overlaying
// them onto a hardcoded default set. It carries no variable bindings.
package config

import (
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

// Config holds the ambient defaults shared by the cmd/dice CLI and
// internal/server HTTP API.
type Config struct {
	Server struct {
		Port       int  `yaml:"port"`
		PrettyLogs bool `yaml:"pretty_logs"`
		DebugMode  bool `yaml:"debug"`
	} `yaml:"server"`

	Format struct {
		Verbosity string `yaml:"verbosity"` // "short", "medium", "verbose"
		Markdown  bool   `yaml:"markdown"`
	} `yaml:"format"`
}

// Default returns the package's hardcoded default configuration.
func Default() Config {
	var c Config
	c.Server.Port = 8000
	c.Format.Verbosity = "medium"
	c.Format.Markdown = false
	return c
}

// Load reads a YAML configuration file at path, overlaying it onto
// Default(). A missing file is not an error; Load returns the defaults
// unchanged.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
