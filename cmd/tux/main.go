package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/tux/internal/cli"
	"github.com/ppiankov/tux/internal/reporter"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "tux:", err)
		if errors.Is(err, reporter.ErrRenderSync) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
