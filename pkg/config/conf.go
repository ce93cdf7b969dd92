// Package config manages the scoring configuration file under the app home
// directory. A default toxicology-focused config is written on first run so
// users have something concrete to edit.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leadpulse/leadctl/pkg/score"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	ScoringFileName = "scoring.yaml"

	dirMode  = 0700
	fileMode = 0600
)

// Save writes the scoring config to the given directory.
func Save(dirPath string, c *score.Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal scoring config")
	}
	path := filepath.Join(dirPath, ScoringFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", ScoringFileName)
	}
	return nil
}

// ReadOrCreate reads the scoring config from the directory, creating the
// default one if missing. The loaded config is validated before it is
// returned so a broken file fails here, not mid-scoring.
func ReadOrCreate(dirPath string) (*score.Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, ScoringFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, score.Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default scoring config")
		}
	}

	j, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening config file: %s", path)
	}
	defer j.Close()

	b, err := io.ReadAll(j)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	var c score.Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid scoring config in %s", path)
	}

	return &c, nil
}

// GetOrCreateHomeDir returns the app home directory for the current user,
// creating it when missing. The create flag is set when it was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
