package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sealedlabs/sealed/internal/envelope"
	"github.com/sealedlabs/sealed/internal/input"
	"github.com/sealedlabs/sealed/internal/keys"
	logger "github.com/sealedlabs/sealed/internal/logging"
	"github.com/sealedlabs/sealed/pkg/sealedenv"
)

const version = "0.1.0"

var (
	verbose bool
	debug   bool
	Logger  logger.Logger
)

var RootCmd = &cobra.Command{
	Use:   "sealed",
	Short: "Store encrypted environment variables in plaintext .env files",
	Long: `Sealed keeps secrets inside ordinary .env files by encrypting only the
values. Variable names, comments, blank lines and ordering are left
untouched, so the file stays diffable and git-friendly.

Encrypted values use the format ENCv1:<base64 nonce>:<base64 ciphertext>
and are bound to their variable name: moving an encrypted value to a
different name fails decryption.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
	},
}

func init() {
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	RootCmd.AddCommand(setCmd)
	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(keygenCmd)
	RootCmd.AddCommand(keyringCmd)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: ")+err.Error())
		return ExitCode(err)
	}
	return 0
}

// ExitCode maps an error to the documented exit code: 1 variable not
// found, 2 decryption/key error, 3 invalid arguments, 4 file handling
// error. Errors cobra produces itself (unknown flags, wrong arg count)
// fall through to 3.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, sealedenv.ErrMissingVar):
		return 1
	case errors.Is(err, envelope.ErrCrypto),
		errors.Is(err, envelope.ErrNotEncrypted),
		errors.Is(err, keys.ErrMissingKey):
		return 2
	case errors.Is(err, input.ErrFile):
		return 4
	default:
		return 3
	}
}
