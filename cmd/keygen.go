package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sealedlabs/sealed/internal/input"
	"github.com/sealedlabs/sealed/internal/keys"
)

var keygenOutFile string

func init() {
	keygenCmd.Flags().StringVarP(&keygenOutFile, "out-file", "o", "", "write base64 key to a file instead of stdout")
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new random key (base64)",
	Args:  cobra.NoArgs,
	RunE:  runKeygen,
}

func runKeygen(cmd *cobra.Command, args []string) error {
	b64, err := keys.Generate()
	if err != nil {
		return err
	}

	if keygenOutFile == "" {
		fmt.Println(b64)
		return nil
	}

	if err := os.WriteFile(keygenOutFile, []byte(b64+"\n"), 0600); err != nil {
		return fmt.Errorf("%w: failed to write key file %s: %v", input.ErrFile, keygenOutFile, err)
	}

	fmt.Println(color.GreenString("✓") + " key written to " + keygenOutFile)
	return nil
}
