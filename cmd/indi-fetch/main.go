package main

import (
	"os"

	"github.com/thenoblet/indi-driver-fetcher/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
