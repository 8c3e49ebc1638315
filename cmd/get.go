package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sealedlabs/sealed/internal/envelope"
	"github.com/sealedlabs/sealed/internal/input"
	"github.com/sealedlabs/sealed/internal/keys"
	"github.com/sealedlabs/sealed/pkg/sealedenv"
)

var (
	getReveal   bool
	getKey      string
	getKeyFile  string
	getKeyStdin bool
	getKeyring  bool
	getEnvFile  string
)

func init() {
	f := getCmd.Flags()
	f.BoolVarP(&getReveal, "reveal", "r", false, "print decrypted plaintext to stdout")
	f.StringVarP(&getKey, "key", "k", "", "base64-encoded key")
	f.StringVarP(&getKeyFile, "key-file", "K", "", "read key from a file (base64)")
	f.BoolVarP(&getKeyStdin, "key-stdin", "S", false, "read key from stdin (base64)")
	f.BoolVar(&getKeyring, "keyring", false, "read key from the OS keyring")
	f.StringVarP(&getEnvFile, "env-file", "e", ".env", "path to env file")
}

// No spinner here: stdout is the value itself and must stay clean for
// shell consumption.
var getCmd = &cobra.Command{
	Use:   "get VAR_NAME",
	Short: "Read a variable from an env file",
	Long: `Read a variable from the env file. A plaintext value prints as-is. An
encrypted value requires a key (from --key, --key-file, --key-stdin,
--keyring, or SEALED_KEY) and is only printed with --reveal.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	applySettings(cmd, &getEnvFile, &getKeyFile)

	doc, err := readEnvDoc(getEnvFile, false)
	if err != nil {
		return err
	}

	value, ok := doc.Get(name)
	if !ok {
		return fmt.Errorf("%w: variable %q not found in %s", sealedenv.ErrMissingVar, name, getEnvFile)
	}

	if !envelope.IsEncrypted(value) {
		fmt.Println(value)
		return nil
	}

	source := input.KeySource{
		Key:     getKey,
		File:    getKeyFile,
		Stdin:   getKeyStdin,
		Keyring: getKeyring,
		Project: keyProject(getEnvFile),
		EnvKey:  os.Getenv(sealedenv.DefaultKeyVar),
	}
	if !source.Configured() {
		return fmt.Errorf("%w: encrypted value requires a key; provide --key, --key-file, --key-stdin, --keyring, or set SEALED_KEY", keys.ErrMissingKey)
	}
	key, err := source.Read()
	if err != nil {
		return err
	}
	defer keys.Clear(key)

	// Decrypt even without --reveal so a bad key or tampered value is
	// reported instead of silently ignored.
	plaintext, err := envelope.OpenString(key, name, value)
	if err != nil {
		return err
	}

	if !getReveal {
		fmt.Fprintln(os.Stderr, "value is encrypted; use --reveal to print plaintext")
		return nil
	}

	fmt.Println(plaintext)
	return nil
}
