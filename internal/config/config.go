package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/revamp-labs/revamp/internal/branding"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Dir returns the path to the user config directory (~/.revamp/).
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("HOME")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the user config file (~/.revamp/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Store is the merged configuration of one run. Keys are case-insensitive
// (viper lower-cases them).
type Store struct {
	v *viper.Viper
}

// New returns an empty store.
func New() *Store {
	return &Store{v: viper.New()}
}

// SetDefaults installs the lowest-priority layer.
func (s *Store) SetDefaults(defaults map[string]any) {
	for key, value := range flatten("", defaults) {
		s.v.SetDefault(key, value)
	}
}

// LoadUserFile merges the user settings file when it exists, then the
// REVAMP_* environment variables on top of it. A missing file is not an
// error.
func (s *Store) LoadUserFile() error {
	if err := s.LoadFile(FilePath()); err != nil {
		return err
	}
	return s.LoadEnv(os.Environ())
}

// LoadEnv merges REVAMP_* variables from environ into the file layer, so
// package metadata and flags still override them. Underscores separate key
// segments: REVAMP_LINT_TOOL sets lint.tool. REVAMP_HOME only locates the
// settings directory and is not a setting.
func (s *Store) LoadEnv(environ []string) error {
	prefix := branding.EnvVar("")
	env := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key, ok := strings.CutPrefix(name, prefix)
		if !ok || key == "" || name == branding.EnvVar("HOME") {
			continue
		}
		insertPath(env, strings.Split(strings.ToLower(key), "_"), value)
	}
	if len(env) == 0 {
		return nil
	}
	if err := s.v.MergeConfigMap(env); err != nil {
		return fmt.Errorf("merging environment: %w", err)
	}
	return nil
}

// LoadFile merges the YAML file at path into the file layer.
func (s *Store) LoadFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	s.v.SetConfigFile(path)
	s.v.SetConfigType(fileType)
	if err := s.v.MergeInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return nil
}

// MergePackage layers package metadata over defaults and user settings.
func (s *Store) MergePackage(pkg map[string]any) error {
	if len(pkg) == 0 {
		return nil
	}
	// viper lower-cases keys in place; keep the caller's map intact.
	if err := s.v.MergeConfigMap(deepCopy(pkg)); err != nil {
		return fmt.Errorf("merging package metadata: %w", err)
	}
	return nil
}

// ApplyArgv stores parsed command-line flags under "argv" and also applies
// every flag at its own key path, overriding all other layers. Positional
// arguments ("_") are only kept under argv.
func (s *Store) ApplyArgv(argv map[string]any) {
	s.v.Set("argv", argv)
	for key, value := range flatten("", argv) {
		if key == "_" || strings.HasPrefix(key, "_.") {
			continue
		}
		s.v.Set(key, value)
	}
}

// Set overrides key for the rest of the run.
func (s *Store) Set(key string, value any) { s.v.Set(key, value) }

// Get returns the merged value at key, or nil.
func (s *Store) Get(key string) any { return s.v.Get(key) }

// GetString returns the value at key as a string.
func (s *Store) GetString(key string) string { return s.v.GetString(key) }

// GetBool returns the value at key as a bool.
func (s *Store) GetBool(key string) bool { return s.v.GetBool(key) }

// GetStringSlice returns the value at key as a string slice.
func (s *Store) GetStringSlice(key string) []string { return s.v.GetStringSlice(key) }

// IsSet reports whether any layer provides key.
func (s *Store) IsSet(key string) bool { return s.v.IsSet(key) }

// AllSettings returns the merged settings as a nested map.
func (s *Store) AllSettings() map[string]any { return s.v.AllSettings() }

// Keys returns every leaf key, sorted.
func (s *Store) Keys() []string {
	keys := s.v.AllKeys()
	sort.Strings(keys)
	return keys
}

// SaveUserSetting writes a key-value pair to the user settings file,
// creating it when needed. It does not touch any Store.
func SaveUserSetting(key, value string) error {
	if err := EnsureDir(); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType(fileType)
	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %s: %w", configFile, err)
	}
	v.Set(key, value)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// flatten turns nested maps into dotted leaf keys.
func flatten(prefix string, m map[string]any) map[string]any {
	out := make(map[string]any)
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			for nk, nv := range flatten(key, nested) {
				out[nk] = nv
			}
			continue
		}
		out[key] = v
	}
	return out
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopy(nested)
			continue
		}
		out[k] = v
	}
	return out
}
