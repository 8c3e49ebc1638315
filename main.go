package main

import (
	"os"

	"github.com/sealedlabs/sealed/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
