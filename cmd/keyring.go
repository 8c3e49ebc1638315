package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sealedlabs/sealed/internal/input"
	"github.com/sealedlabs/sealed/internal/keyring"
	"github.com/sealedlabs/sealed/internal/keys"
)

var (
	krKey      string
	krKeyStdin bool
	krEnvFile  string
)

func init() {
	keyringSetCmd.Flags().StringVarP(&krKey, "key", "k", "", "base64-encoded key")
	keyringSetCmd.Flags().BoolVarP(&krKeyStdin, "key-stdin", "S", false, "read key from stdin (base64)")

	for _, c := range []*cobra.Command{keyringSetCmd, keyringRmCmd, keyringStatusCmd} {
		c.Flags().StringVarP(&krEnvFile, "env-file", "e", ".env", "path to env file (selects the project)")
		keyringCmd.AddCommand(c)
	}
}

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Manage the project key in the OS keyring",
	Long: `Store the project key in the operating system keyring so it does not
have to live in a file or shell profile. Keys are stored per project
directory; set and get consume them via --keyring.`,
}

var keyringSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the project key in the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project := keyProject(krEnvFile)

		var b64 string
		var err error
		switch {
		case krKey != "" && krKeyStdin:
			return fmt.Errorf("%w: choose one of --key or --key-stdin", input.ErrUsage)
		case krKey != "":
			b64 = krKey
		case krKeyStdin:
			b64, err = input.ReadSecretLine("")
		default:
			b64, err = input.ReadSecretLine("Enter base64 key: ")
		}
		if err != nil {
			return err
		}

		// Validate before storing so the keyring never holds junk.
		key, err := keys.Decode(b64)
		if err != nil {
			return err
		}
		keys.Clear(key)

		if err := keyring.SaveKey(project, b64); err != nil {
			return fmt.Errorf("failed to save key to keyring: %w", err)
		}

		fmt.Println(color.GreenString("✓") + " key stored in keyring for " + project)
		return nil
	},
}

var keyringRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove the project key from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project := keyProject(krEnvFile)

		if err := keyring.DeleteKey(project); err != nil {
			fmt.Println("no key stored in keyring for " + project)
			return nil
		}

		fmt.Println(color.GreenString("✓") + " key removed from keyring for " + project)
		return nil
	},
}

var keyringStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether a project key is stored in the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		project := keyProject(krEnvFile)

		if keyring.HasKey(project) {
			fmt.Println("key: stored in keyring for " + project)
		} else {
			fmt.Println("key: not stored for " + project)
		}
		return nil
	},
}
