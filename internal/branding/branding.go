// Package branding provides compile-time identity values for the CLI.
//
// Forkers edit branding.yaml in this package and rebuild; Go's //go:embed
// bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults identity
)

type identity struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	Repo        string `yaml:"repo"`
}

func load() {
	once.Do(func() {
		defaults = identity{
			CLIName:     "revamp",
			DisplayName: "Revamp",
			Description: "Refresh project boilerplate with declarative tasks",
			HomeDir:     ".revamp",
			EnvPrefix:   "REVAMP",
			Repo:        "revamp-labs/revamp",
		}
		// The embedded file overrides any field it sets.
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "revamp").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".revamp").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "REVAMP").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// IssuesURL is where the help text sends bug reports.
func IssuesURL() string {
	load()
	return "https://github.com/" + defaults.Repo + "/issues"
}

// EnvVar returns a fully qualified env var name, e.g., EnvVar("HOME") → "REVAMP_HOME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
