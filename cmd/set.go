package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sealedlabs/sealed/internal/envelope"
	"github.com/sealedlabs/sealed/internal/input"
	"github.com/sealedlabs/sealed/internal/keys"
	"github.com/sealedlabs/sealed/pkg/sealedenv"
)

var (
	setStdin     bool
	setValue     string
	setValueFile string
	setAllowArgv bool
	setKey       string
	setKeyFile   string
	setKeyStdin  bool
	setKeyring   bool
	setEnvFile   string
)

func init() {
	f := setCmd.Flags()
	f.BoolVarP(&setStdin, "stdin", "s", false, "read plaintext value from stdin")
	f.StringVarP(&setValue, "value", "v", "", "read plaintext value from argv (requires --allow-argv)")
	f.StringVarP(&setValueFile, "value-file", "f", "", "read plaintext value from a file")
	f.BoolVarP(&setAllowArgv, "allow-argv", "a", false, "allow --value to read plaintext from argv")
	f.StringVarP(&setKey, "key", "k", "", "base64-encoded key")
	f.StringVarP(&setKeyFile, "key-file", "K", "", "read key from a file (base64)")
	f.BoolVarP(&setKeyStdin, "key-stdin", "S", false, "read key from stdin (base64)")
	f.BoolVar(&setKeyring, "keyring", false, "read key from the OS keyring")
	f.StringVarP(&setEnvFile, "env-file", "e", ".env", "path to env file")
}

var setCmd = &cobra.Command{
	Use:   "set VAR_NAME",
	Short: "Encrypt and store a variable in an env file",
	Long: `Encrypt a plaintext value and store it as ENCv1:<nonce>:<ciphertext> in
the env file, creating the file if needed. The variable name is bound
into the encryption as associated data.

Value input: exactly one of --stdin, --value (with --allow-argv), or
--value-file. Key input: exactly one of --key, --key-file, --key-stdin,
--keyring, or SEALED_KEY (env var).`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func runSet(cmd *cobra.Command, args []string) error {
	name := args[0]

	if setStdin && setKeyStdin {
		return fmt.Errorf("%w: stdin may be used only once; --stdin and --key-stdin cannot be used together", input.ErrUsage)
	}

	applySettings(cmd, &setEnvFile, &setKeyFile)

	Logger.Debugf("Reading plaintext value for %s", name)
	value, err := input.ValueSource{
		Stdin:     setStdin,
		Value:     setValue,
		ValueSet:  cmd.Flags().Changed("value"),
		File:      setValueFile,
		AllowArgv: setAllowArgv,
	}.Read()
	if err != nil {
		return err
	}

	source := input.KeySource{
		Key:     setKey,
		File:    setKeyFile,
		Stdin:   setKeyStdin,
		Keyring: setKeyring,
		Project: keyProject(setEnvFile),
		EnvKey:  os.Getenv(sealedenv.DefaultKeyVar),
	}
	if !source.Configured() {
		return fmt.Errorf("%w: key required; provide --key, --key-file, --key-stdin, --keyring, or set SEALED_KEY", input.ErrUsage)
	}
	key, err := source.Read()
	if err != nil {
		return err
	}
	defer keys.Clear(key)

	s, cleanup := startSpinner("Encrypting " + name + "...")
	defer cleanup()

	token, err := envelope.Seal(key, name, []byte(value))
	if err != nil {
		return err
	}

	doc, err := readEnvDoc(setEnvFile, true)
	if err != nil {
		return err
	}
	doc.Set(name, token)

	if err := writeEnvDoc(setEnvFile, doc); err != nil {
		return err
	}
	Logger.Infof("Encrypted %s into %s", name, setEnvFile)

	s.FinalMSG = color.GreenString("✓") + " " + color.YellowString(name) + " set in " + setEnvFile
	return nil
}
