package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/sealedlabs/sealed/internal/configs"
	"github.com/sealedlabs/sealed/internal/envfile"
	"github.com/sealedlabs/sealed/internal/input"
)

// startSpinner creates and starts a spinner with the given message when
// not in verbose or debug mode. Returns the spinner and a cleanup
// function to defer. FinalMSG values do not need trailing newlines; the
// cleanup appends one.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// No color support; the spinner still works.
		Logger.Debugf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ensureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// ensureNewline ensures the string ends with a newline character.
func ensureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// applySettings fills flag defaults from an optional .sealed.toml in
// the working directory. Explicitly set flags always win.
func applySettings(cmd *cobra.Command, envFile, keyFile *string) {
	settings, err := configs.Load(".")
	if err != nil {
		Logger.Warnf("%v", err)
		return
	}

	if envFile != nil && settings.EnvFile != "" && !cmd.Flags().Changed("env-file") {
		Logger.Debugf("Using env file %s from %s", settings.EnvFile, configs.SettingsFile)
		*envFile = settings.EnvFile
	}
	if keyFile != nil && settings.KeyFile != "" && !cmd.Flags().Changed("key-file") {
		Logger.Debugf("Using key file %s from %s", settings.KeyFile, configs.SettingsFile)
		*keyFile = settings.KeyFile
	}
}

// readEnvDoc reads and parses the env file. With allowMissing, a
// missing file yields an empty document (set creates the file).
func readEnvDoc(path string, allowMissing bool) (*envfile.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			return envfile.Parse(""), nil
		}
		return nil, fmt.Errorf("%w: failed to read env file %s: %v", input.ErrFile, path, err)
	}
	return envfile.Parse(string(raw)), nil
}

// writeEnvDoc writes the serialized document back, keeping the existing
// file mode. The write happens only after the full in-memory document
// was built; failure anywhere earlier leaves the file untouched.
func writeEnvDoc(path string, doc *envfile.Document) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(path, []byte(doc.Serialize()), mode); err != nil {
		return fmt.Errorf("%w: failed to write env file %s: %v", input.ErrFile, path, err)
	}
	return nil
}

// keyProject is the keyring account for an env file: its directory's
// absolute path.
func keyProject(envFile string) string {
	abs, err := filepath.Abs(envFile)
	if err != nil {
		return filepath.Dir(envFile)
	}
	return filepath.Dir(abs)
}
