package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/katalvlaran/qudec/bfs"
	"github.com/katalvlaran/qudec/builder"
	"github.com/katalvlaran/qudec/config"
	"github.com/katalvlaran/qudec/core"
	"github.com/katalvlaran/qudec/decoder"
	"github.com/katalvlaran/qudec/dem"
	"github.com/katalvlaran/qudec/matching"
)

// stack is everything a benchmark needs from a run description.
type stack struct {
	model *dem.Model
	graph *core.Graph
	dec   decoder.Decoder
	ref   decoder.Decoder // nil unless the run asks for a reference
}

// graphLoader reads and builds models with the run's merge policy.
type graphLoader struct {
	opts []builder.Option
}

func (l graphLoader) load(path string) (*dem.Model, *core.Graph, error) {
	m, err := dem.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	g, err := builder.Build(m, l.opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("qudec: %s: %w", path, err)
	}

	return m, g, nil
}

// buildStack constructs the decoder named by r.Decoder over the model at
// r.DEM. Accelerators wrap a fresh Global decoder of their own.
func buildStack(r config.Run, logger *log.Logger) (*stack, error) {
	policy, err := builder.ParseMergePolicy(r.Merge)
	if err != nil {
		return nil, err
	}
	solver, err := matching.ByName(r.Solver)
	if err != nil {
		return nil, err
	}
	loader := graphLoader{opts: []builder.Option{builder.WithMergePolicy(policy), builder.WithLogger(logger)}}
	opts := []decoder.Option{decoder.WithSolver(solver)}

	m, g, err := loader.load(r.DEM)
	if err != nil {
		return nil, err
	}
	st := &stack{model: m, graph: g}
	if lost, err := bfs.Unreachable(g); err != nil {
		return nil, err
	} else if len(lost) > 0 {
		logger.Warn("detectors cannot reach the boundary", "count", len(lost), "first", lost[0])
	}

	switch r.Decoder {
	case config.KindGlobal:
		st.dec, err = decoder.NewGlobal(g, opts...)

	case config.KindSliding:
		local := g
		if r.WindowDEM != "" {
			if _, local, err = loader.load(r.WindowDEM); err != nil {
				return nil, err
			}
		}
		st.dec, err = decoder.NewSlidingWindow(local, r.Window.Params(), opts...)

	case config.KindFPD:
		var inner *decoder.Global
		if inner, err = decoder.NewGlobal(g, opts...); err == nil {
			st.dec, err = decoder.NewFPD(g, inner, r.FPD.Config())
		}

	case config.KindPromatch:
		var inner *decoder.Global
		if inner, err = decoder.NewGlobal(g, opts...); err == nil {
			st.dec, err = decoder.NewPromatch(g, inner, r.Promatch.Config())
		}

	case config.KindEPR:
		_, inner, lerr := loader.load(r.EPR.InnerDEM)
		if lerr != nil {
			return nil, lerr
		}
		_, outer, lerr := loader.load(r.EPR.OuterDEM)
		if lerr != nil {
			return nil, lerr
		}
		cfg := decoder.EPRConfig{Inner: r.Window.Params()}
		if r.EPR.InnerWindowDEM != "" {
			if _, cfg.InnerWindow, err = loader.load(r.EPR.InnerWindowDEM); err != nil {
				return nil, err
			}
		}
		st.dec, err = decoder.NewEPR(g, inner, outer, cfg, opts...)

	default:
		return nil, fmt.Errorf("qudec: unknown decoder %q", r.Decoder)
	}
	if err != nil {
		return nil, err
	}

	if r.Reference {
		if st.ref, err = decoder.NewGlobal(g); err != nil {
			return nil, err
		}
	}
	logger.Info("decoder ready", "kind", r.Decoder, "solver", r.Solver,
		"detectors", m.NumDetectors, "edges", g.EdgeCount())

	return st, nil
}
