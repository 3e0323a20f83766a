package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/katalvlaran/qudec/config"
	"github.com/katalvlaran/qudec/eval"
)

// benchFlags are the command-line overrides of a run description.
type benchFlags struct {
	configPath  string
	metricsAddr string
	hamming     bool
	run         config.Run
}

func newBenchCmd() *cobra.Command {
	return benchCmd(&benchFlags{run: config.Default()})
}

func benchCmd(f *benchFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark a decoder on syndromes sampled from a model",
		Long: `bench samples syndromes from the detector error model, decodes them and
reports the logical error rate and decode times. Flags override values read
from --config.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "", "YAML run description")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while running")
	fl.BoolVar(&f.hamming, "hamming", false, "also print mean decode time per syndrome Hamming weight")
	bindRunFlags(fl, &f.run)

	return cmd
}

// bindRunFlags registers one flag per run field, defaulting to r's values.
func bindRunFlags(fl *pflag.FlagSet, r *config.Run) {
	fl.StringVar(&r.DEM, "dem", r.DEM, "detector error model file")
	fl.StringVar(&r.Decoder, "decoder", r.Decoder, "global|sliding|fpd|promatch|epr")
	fl.StringVar(&r.Solver, "solver", r.Solver, "exact|blossom|dp|greedy")
	fl.StringVar(&r.Merge, "merge", r.Merge, "duplicate edge policy: or|overwrite")
	fl.StringVar(&r.LogLevel, "log-level", r.LogLevel, "debug|info|warn|error")
	fl.BoolVar(&r.Reference, "reference", r.Reference, "count disagreements with a global decoder")

	fl.Uint64Var(&r.Eval.Trials, "trials", r.Eval.Trials, "number of trials")
	fl.Uint64Var(&r.Eval.StopAfterErrors, "stop-after-errors", r.Eval.StopAfterErrors, "stop after this many logical errors (0 never)")
	fl.IntVar(&r.Eval.Workers, "workers", r.Eval.Workers, "concurrent batches")
	fl.IntVar(&r.Eval.BatchSize, "batch-size", r.Eval.BatchSize, "trials per sampled batch")
	fl.Int64Var(&r.Eval.Seed, "seed", r.Eval.Seed, "base sampler seed")
	fl.BoolVar(&r.Eval.DisableClock, "disable-clock", r.Eval.DisableClock, "skip decode timing")

	fl.StringVar(&r.WindowDEM, "window-dem", r.WindowDEM, "local window model for --decoder sliding")
	fl.IntVar(&r.Window.Commit, "commit", r.Window.Commit, "rounds committed per window")
	fl.IntVar(&r.Window.Window, "window", r.Window.Window, "rounds decoded per window")
	fl.IntVar(&r.Window.DetectorsPerRound, "detectors-per-round", r.Window.DetectorsPerRound, "detectors in each round")
	fl.IntVar(&r.Window.Rounds, "rounds", r.Window.Rounds, "rounds in the stream")

	fl.StringVar(&r.EPR.InnerDEM, "inner-dem", r.EPR.InnerDEM, "inner sub-circuit model for --decoder epr")
	fl.StringVar(&r.EPR.OuterDEM, "outer-dem", r.EPR.OuterDEM, "outer sub-circuit model for --decoder epr")
	fl.StringVar(&r.EPR.InnerWindowDEM, "inner-window-dem", r.EPR.InnerWindowDEM, "local window model for the inner sub-circuit")

	fl.IntVar(&r.FPD.ChainLimit, "chain-limit", r.FPD.ChainLimit, "FPD chain hop limit (0 disables)")
	fl.BoolVar(&r.FPD.SkipIfAnyWithoutPref, "fpd-skip", r.FPD.SkipIfAnyWithoutPref, "FPD delegates when a detector has no preference")
	fl.IntVar(&r.Promatch.MaxRounds, "promatch-rounds", r.Promatch.MaxRounds, "Promatch pair removals per decode (0 unbounded)")
}

// resolveRun layers the flags the user set over the config file, if any,
// and validates the result.
func resolveRun(cmd *cobra.Command, f *benchFlags) (config.Run, error) {
	if f.configPath == "" {
		return f.run, f.run.Validate()
	}
	r, err := config.Read(f.configPath)
	if err != nil {
		return config.Run{}, err
	}

	overlay := pflag.NewFlagSet("overlay", pflag.ContinueOnError)
	bindRunFlags(overlay, &r)
	var setErr error
	cmd.Flags().Visit(func(pf *pflag.Flag) {
		if overlay.Lookup(pf.Name) == nil || setErr != nil {
			return
		}
		setErr = overlay.Set(pf.Name, pf.Value.String())
	})
	if setErr != nil {
		return config.Run{}, setErr
	}

	return r, r.Validate()
}

func runBench(cmd *cobra.Command, f *benchFlags) error {
	r, err := resolveRun(cmd, f)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), r.LogLevel)
	if err != nil {
		return err
	}
	st, err := buildStack(r, logger)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	opts := []eval.Option{eval.WithLogger(logger), eval.WithMetrics(eval.NewMetrics(reg))}
	if st.ref != nil {
		opts = append(opts, eval.WithReference(st.ref))
	}
	h, err := eval.New(st.model, st.dec, r.Eval, opts...)
	if err != nil {
		return err
	}

	if f.metricsAddr != "" {
		srv := &http.Server{
			Addr:              f.metricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server", "err", err)
			}
		}()
		defer srv.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	stats, err := h.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	out := cmd.OutOrStdout()
	if err := stats.Print(out); err != nil {
		return err
	}
	if f.hamming {
		return stats.PrintHammingWeights(out)
	}

	return nil
}
