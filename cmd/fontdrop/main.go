package main

import (
	"os"

	"github.com/arthur-debert/fontdrop/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
