package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Command runs a linter binary with the files appended to Args.
type Command struct {
	Bin  string
	Args []string

	// Stdout and Stderr optionally receive a live copy of the tool output.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes the linter in dir. Non-zero exits are reported through
// Output.ExitCode, not as errors.
func (c *Command) Run(ctx context.Context, dir string, files []string) (*Output, error) {
	bin, err := c.Path(dir)
	if err != nil {
		return nil, err
	}

	args := append(append([]string{}, c.Args...), files...)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	cmd.Env = setEnv(os.Environ(), "FORCE_COLOR", "0")

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = tee(c.Stdout, &stdoutBuf)
	cmd.Stderr = tee(c.Stderr, &stderrBuf)

	err = cmd.Run()

	output := &Output{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			output.ExitCode = exitErr.ExitCode()
			return output, nil
		}
		return output, fmt.Errorf("executing %s: %w", c.Bin, err)
	}
	return output, nil
}

// Path prefers dir/node_modules/.bin/<Bin> and falls back to PATH.
func (c *Command) Path(dir string) (string, error) {
	local := filepath.Join(dir, "node_modules", ".bin", c.Bin)
	if info, err := os.Stat(local); err == nil && !info.IsDir() && info.Mode()&0o111 != 0 {
		return local, nil
	}
	bin, err := exec.LookPath(c.Bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotInstalled, c.Bin)
	}
	return bin, nil
}

func tee(w io.Writer, buf *bytes.Buffer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(w, buf)
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
