// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads createconfig's tool settings.
//
// Settings are layered, later sources winning:
//
//	defaults → settings.yaml → .env in the working directory → environment → flags
//
// The result is validated before use.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/createconfig/cmd/createconfig/internal/peers"
)

// Environment variables read by Load.
const (
	EnvSettingsPath = "CREATECONFIG_SETTINGS"
	EnvRegistry     = "NPM_CONFIG_REGISTRY"
	EnvLogLevel     = "CREATECONFIG_LOG_LEVEL"
	EnvPersonality  = "CREATECONFIG_PERSONALITY"
)

// ErrInvalidSettings wraps validation failures.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the tool's own knobs. They never affect what config is
// generated, only how dependencies are looked up and installed.
type Settings struct {
	// Registry is the npm registry used when the npm CLI cannot answer.
	Registry string `yaml:"registry" validate:"required,url"`

	// NPMCommand is the npm executable used for peer lookups.
	NPMCommand string `yaml:"npm_command" validate:"required"`

	ResolveTimeout time.Duration `yaml:"resolve_timeout" validate:"gt=0"`

	// InstallTimeout bounds the package manager run. Zero means no limit.
	InstallTimeout time.Duration `yaml:"install_timeout" validate:"gte=0"`

	FixTimeout time.Duration `yaml:"fix_timeout" validate:"gt=0"`

	LogLevel    string `yaml:"log_level" validate:"oneof=debug info warn error"`
	Personality string `yaml:"personality" validate:"oneof=full standard minimal machine"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Registry:       peers.DefaultRegistry,
		NPMCommand:     peers.DefaultNPMCommand,
		ResolveTimeout: peers.DefaultTimeout,
		FixTimeout:     60 * time.Second,
		LogLevel:       "warn",
		Personality:    "standard",
	}
}

// Overrides are command-line values. Empty fields are ignored.
type Overrides struct {
	Registry    string
	LogLevel    string
	Personality string
}

// LoadOptions tells Load where to look.
type LoadOptions struct {
	// SettingsPath is an explicit settings file. It must exist when set.
	SettingsPath string

	// WorkDir holds the optional .env file.
	WorkDir string

	Overrides Overrides

	// Getenv defaults to os.Getenv.
	Getenv func(string) string

	// HomeDir defaults to os.UserHomeDir.
	HomeDir func() (string, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds Settings from every source.
//
// # Description
//
// The settings file is SettingsPath, else $CREATECONFIG_SETTINGS, else
// ~/.config/createconfig/settings.yaml. Only an explicitly named file has
// to exist. The .env file is read without modifying the process
// environment, and real environment variables take precedence over it.
//
// # Errors
//
//   - reading or parsing a settings file or .env file fails
//   - ErrInvalidSettings: the merged settings do not validate
func Load(opts LoadOptions) (*Settings, error) {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	homeDir := opts.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}

	s := Default()

	path, explicit := opts.SettingsPath, opts.SettingsPath != ""
	if !explicit {
		if env := getenv(EnvSettingsPath); env != "" {
			path, explicit = env, true
		} else if home, err := homeDir(); err == nil {
			path = filepath.Join(home, ".config", "createconfig", "settings.yaml")
		}
	}
	if path != "" {
		if err := loadFile(path, explicit, &s); err != nil {
			return nil, err
		}
	}

	dotenv, err := readDotEnv(opts.WorkDir)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
	applyString(&s.Registry, lookup(EnvRegistry))
	applyString(&s.LogLevel, lookup(EnvLogLevel))
	applyString(&s.Personality, lookup(EnvPersonality))

	applyString(&s.Registry, opts.Overrides.Registry)
	applyString(&s.LogLevel, opts.Overrides.LogLevel)
	applyString(&s.Personality, opts.Overrides.Personality)

	s.LogLevel = strings.ToLower(s.LogLevel)
	s.Personality = strings.ToLower(s.Personality)

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every field.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s=%v (%s)", fe.Field(), fe.Value(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

func loadFile(path string, required bool, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parsing settings file %s: %w", path, err)
	}
	return nil
}

func readDotEnv(dir string) (map[string]string, error) {
	if dir == "" {
		return nil, nil
	}
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}

func applyString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
