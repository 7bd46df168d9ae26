package plugins

import (
	"bytes"
	"context"
	"fmt"

	"go.yaml.in/yaml/v3"

	"github.com/revamp-labs/revamp/internal/file"
	"github.com/revamp-labs/revamp/internal/pipeline"
)

// DefaultNodeVersions are the node_js entries of a fresh .travis.yml.
var DefaultNodeVersions = []string{"stable", "0.12", "0.10"}

type travisConfig struct {
	Sudo     bool           `yaml:"sudo"`
	Language string         `yaml:"language"`
	NodeJS   []string       `yaml:"node_js"`
	Matrix   travisMatrix   `yaml:"matrix"`
	Rest     map[string]any `yaml:",inline"`
}

type travisMatrix struct {
	FastFinish    bool             `yaml:"fast_finish"`
	AllowFailures []map[string]any `yaml:"allow_failures,omitempty"`
}

// Travis normalizes .travis.yml for a node project: container builds,
// node_js language, a default version list when none is given, and
// fast_finish. Unrelated keys are preserved.
func Travis() pipeline.Stage {
	return pipeline.Map(func(_ context.Context, rec *file.Record) error {
		var cfg travisConfig
		if err := yaml.Unmarshal(rec.Contents, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", rec.Relative(), err)
		}

		cfg.Sudo = false
		cfg.Language = "node_js"
		if len(cfg.NodeJS) == 0 {
			cfg.NodeJS = append([]string(nil), DefaultNodeVersions...)
		}
		cfg.Matrix.FastFinish = true

		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&cfg); err != nil {
			return fmt.Errorf("encoding %s: %w", rec.Relative(), err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
		rec.Contents = buf.Bytes()
		return nil
	})
}
