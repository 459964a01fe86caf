package gitcli

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Repository is a handle on a working copy that all git subprocess
// invocations are executed against. It holds no native resources, so unlike
// the libgit2-bound wrapper it once replaced there is nothing to Free.
type Repository struct {
	path string
}

// OpenRepository returns a Repository rooted at path. It does not itself
// invoke git; the path is validated lazily by the first real command.
func OpenRepository(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty repository path", ErrCommandFailed)
	}

	return &Repository{path: path}, nil
}

// Path returns the repository's working directory.
func (r *Repository) Path() string {
	return r.path
}

// run executes `git <args...>` in the repository directory and returns stdout.
// A non-zero exit is reported as ErrCommandFailed wrapping the captured
// stderr, per the external-interface contract that any non-zero exit fails
// the call.
func (r *Repository) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: git %s: %v: %s", ErrCommandFailed, strings.Join(args, " "), err, stderr.String())
	}

	return stdout.Bytes(), nil
}

// runTolerant executes `git <args...>` and also tolerates a non-zero exit
// whose stderr is blank or matches one of the expected substrings, returning
// whatever stdout was produced. This mirrors `git config <key>` which exits
// 1 with no output when the key is simply unset.
func (r *Repository) runTolerant(ctx context.Context, expectedBlankErr []string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	errText := strings.TrimSpace(stderr.String())
	if errText == "" {
		return stdout.Bytes(), nil
	}

	for _, expected := range expectedBlankErr {
		if strings.Contains(errText, expected) {
			return stdout.Bytes(), nil
		}
	}

	return nil, fmt.Errorf("%w: git %s: %v: %s", ErrCommandFailed, strings.Join(args, " "), err, errText)
}

// CheckGitVersion runs `git --version` and returns the raw version string.
// A failure here means git itself is missing or not executable.
func CheckGitVersion(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "--version")

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotAGitBinary, err)
	}

	version := strings.TrimSpace(string(out))
	if !strings.HasPrefix(version, "git version") {
		return "", fmt.Errorf("%w: unexpected output %q", ErrNotAGitBinary, version)
	}

	return version, nil
}

// ConfigValue runs `git config <key>` and returns its trimmed value. An
// unset key is not an error: git exits non-zero with empty output, which
// runTolerant treats as a blank result.
func (r *Repository) ConfigValue(ctx context.Context, key string) (string, error) {
	out, err := r.runTolerant(ctx, []string{""}, "config", key)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

// LocalIdentities returns the repository-local committer identity as
// (name, email), preferring user.* and falling back to author.*/committer.*
// in the order git itself would resolve them for a new commit.
func (r *Repository) LocalIdentities(ctx context.Context) (name, email string) {
	for _, key := range []string{"user.name", "author.name", "committer.name"} {
		if v, err := r.ConfigValue(ctx, key); err == nil && v != "" {
			name = v

			break
		}
	}

	for _, key := range []string{"user.email", "author.email", "committer.email"} {
		if v, err := r.ConfigValue(ctx, key); err == nil && v != "" {
			email = v

			break
		}
	}

	return name, email
}
