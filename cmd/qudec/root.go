package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// newRootCmd wires the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "qudec",
		Short:        "Matching-based decoders for topological QEC codes",
		SilenceUsage: true,
	}
	root.AddCommand(newGraphCmd(), newBenchCmd())

	return root
}

// newLogger returns a stderr logger at the named level.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("qudec: %w", err)
	}
	if w == nil {
		w = os.Stderr
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           lvl,
		Prefix:          "qudec",
	}), nil
}
