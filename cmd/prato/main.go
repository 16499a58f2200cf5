package main

import (
	"os"

	"github.com/pratoapp/prato/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
