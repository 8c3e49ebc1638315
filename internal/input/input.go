// Package input selects and reads the plaintext value and key material
// for CLI commands. Exactly one source must be chosen for each; the
// rules exist so a secret is never accidentally taken from two places
// or silently left on a command line.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/sealedlabs/sealed/internal/keyring"
	"github.com/sealedlabs/sealed/internal/keys"
)

var (
	// ErrUsage reports an invalid flag combination.
	ErrUsage = errors.New("invalid arguments")

	// ErrFile reports a failure reading or writing a file.
	ErrFile = errors.New("file error")
)

// ValueSource describes where the plaintext value comes from.
type ValueSource struct {
	Stdin    bool   // --stdin
	Value    string // --value
	ValueSet bool   // --value was given (may legitimately be empty)
	File     string // --value-file
	AllowArgv bool  // --allow-argv
}

// Read validates that exactly one source is chosen and reads the value.
// Trailing newlines are trimmed from stdin and file input.
func (s ValueSource) Read() (string, error) {
	count := 0
	if s.Stdin {
		count++
	}
	if s.ValueSet {
		count++
	}
	if s.File != "" {
		count++
	}
	if count != 1 {
		return "", fmt.Errorf("%w: value required; choose exactly one of --stdin, --value (with --allow-argv), or --value-file", ErrUsage)
	}

	if s.ValueSet && !s.AllowArgv {
		return "", fmt.Errorf("%w: --value requires --allow-argv (argv is visible to other processes)", ErrUsage)
	}

	switch {
	case s.Stdin:
		raw, err := readStdin()
		if err != nil {
			return "", err
		}
		return trimEndNewlines(raw), nil
	case s.File != "":
		raw, err := os.ReadFile(s.File)
		if err != nil {
			return "", fmt.Errorf("%w: failed to read value file %s: %v", ErrFile, s.File, err)
		}
		return trimEndNewlines(string(raw)), nil
	default:
		return s.Value, nil
	}
}

// KeySource describes where the base64 project key comes from. At most
// one of the explicit sources and the environment fallback may be
// configured.
type KeySource struct {
	Key     string // --key
	File    string // --key-file
	Stdin   bool   // --key-stdin
	Keyring bool   // --keyring
	Project string // keyring account: absolute project directory
	EnvKey  string // value of the SEALED_KEY fallback, "" if unset
}

// Read resolves and decodes the key. When no source is configured it
// returns keys.ErrMissingKey, which callers map to their own policy
// (set refuses early, get only when the value turns out encrypted).
func (s KeySource) Read() (keys.Key, error) {
	b64, ok, err := s.selectSource()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, keys.ErrMissingKey
	}
	return keys.Decode(b64)
}

// Configured reports whether any key source is available, without
// reading it.
func (s KeySource) Configured() bool {
	return s.Key != "" || s.File != "" || s.Stdin || s.Keyring || s.EnvKey != ""
}

func (s KeySource) selectSource() (string, bool, error) {
	count := 0
	if s.Key != "" {
		count++
	}
	if s.File != "" {
		count++
	}
	if s.Stdin {
		count++
	}
	if s.Keyring {
		count++
	}
	if s.EnvKey != "" {
		count++
	}
	if count > 1 {
		return "", false, fmt.Errorf("%w: choose exactly one key source: --key, --key-file, --key-stdin, --keyring, or SEALED_KEY", ErrUsage)
	}

	switch {
	case s.Key != "":
		return s.Key, true, nil
	case s.File != "":
		raw, err := os.ReadFile(s.File)
		if err != nil {
			return "", false, fmt.Errorf("%w: failed to read key file %s: %v", ErrFile, s.File, err)
		}
		return trimEndNewlines(string(raw)), true, nil
	case s.Stdin:
		raw, err := readStdin()
		if err != nil {
			return "", false, err
		}
		return trimEndNewlines(raw), true, nil
	case s.Keyring:
		b64, err := keyring.GetKey(s.Project)
		if err != nil {
			return "", false, fmt.Errorf("%w: no key stored in keyring for %s", keys.ErrMissingKey, s.Project)
		}
		return b64, true, nil
	case s.EnvKey != "":
		return s.EnvKey, true, nil
	}

	return "", false, nil
}

// ReadSecretLine reads one secret line. On a terminal, input is
// prompted on stderr and not echoed; otherwise a line is read from
// piped stdin.
func ReadSecretLine(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr) // newline after hidden input
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(raw), nil
	}

	raw, err := readStdin()
	if err != nil {
		return "", err
	}
	return trimEndNewlines(raw), nil
}

// readStdin reads all piped stdin. A terminal on stdin means nothing
// was piped, which is reported as a usage error rather than a hang.
func readStdin() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat stdin: %w", err)
	}
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("%w: no data provided on stdin", ErrUsage)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func trimEndNewlines(s string) string {
	return strings.TrimRight(s, "\r\n")
}
