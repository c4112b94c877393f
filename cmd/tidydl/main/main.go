package main

import (
	"os"

	"github.com/arthur-debert/tidydl/cmd/tidydl"
	"github.com/arthur-debert/tidydl/pkg/output"
)

func main() {
	rootCmd := tidydl.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer, rerr := output.NewRenderer(os.Stderr, output.FormatAuto)
		if rerr == nil {
			_ = renderer.Error(err)
		}
		os.Exit(1)
	}
}
