package main

import (
	"os"

	"github.com/xuie0000/wordbook/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
