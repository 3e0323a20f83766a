package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/qudec/bfs"
	"github.com/katalvlaran/qudec/builder"
	"github.com/katalvlaran/qudec/core"
	"github.com/katalvlaran/qudec/dem"
)

func newGraphCmd() *cobra.Command {
	var (
		demPath string
		merge   string
		level   string
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Build the decoding graph of a model and print its summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), level)
			if err != nil {
				return err
			}
			policy, err := builder.ParseMergePolicy(merge)
			if err != nil {
				return err
			}
			m, err := dem.ReadFile(demPath)
			if err != nil {
				return err
			}
			g, err := builder.Build(m, builder.WithMergePolicy(policy), builder.WithLogger(logger))
			if err != nil {
				return err
			}

			return printGraph(cmd, m, g)
		},
	}
	cmd.Flags().StringVar(&demPath, "dem", "", "detector error model file")
	cmd.Flags().StringVar(&merge, "merge", "or", "duplicate edge policy: or|overwrite")
	cmd.Flags().StringVar(&level, "log-level", "info", "debug|info|warn|error")
	_ = cmd.MarkFlagRequired("dem")

	return cmd
}

func printGraph(cmd *cobra.Command, m *dem.Model, g *core.Graph) error {
	st := g.Stats()
	lost, err := bfs.Unreachable(g)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"detectors   %d\nobservables %d\nmechanisms  %d\nvertices    %d\nedges       %d\nboundary    %d\nmax degree  %d\nunreachable %d\n",
		m.NumDetectors, m.NumObservables, len(m.Mechanisms), st.Vertices, st.Edges, st.Boundary, st.MaxDeg, len(lost))

	return err
}
