package gitcli

import "errors"

// Sentinel errors returned by the gitcli package. Callers use errors.Is to
// distinguish a git subprocess failure from a malformed-output failure.
var (
	// ErrInvalidHash indicates a string could not be parsed as a git object id.
	ErrInvalidHash = errors.New("gitcli: invalid object hash")

	// ErrCommandFailed indicates the git subprocess exited non-zero.
	ErrCommandFailed = errors.New("gitcli: git command failed")

	// ErrUnexpectedOutput indicates git produced output the parser could not understand.
	ErrUnexpectedOutput = errors.New("gitcli: unexpected git output")

	// ErrNotAGitBinary indicates `git --version` did not return a parseable version string.
	ErrNotAGitBinary = errors.New("gitcli: git binary not found or not usable")
)
