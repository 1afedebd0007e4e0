package main

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rushteam/segkit/config"
	"github.com/rushteam/segkit/core"
	"github.com/rushteam/segkit/metrics"
	"github.com/rushteam/segkit/pipeline"
)

type runOptions struct {
	configPath      string
	outputDir       string
	segmentSep      string
	ratingsSep      string
	modelPath       string
	metricsTextfile string
	redisAddr       string
	logLevel        string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "segkit",
		Short:         "Label user activity from segment exports and train a decision tree",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run <segments-file> <ratings-file>",
		Short: "Run the segmentation pipeline and export the PowerBI reports",
		Long: `Loads a semicolon-separated segment export and a comma-separated ratings log,
labels each user High (more than 50 ratings) or Low, trains a depth-5 decision tree
on a stratified 70/30 split and writes:

  1_Segmented_Users_for_PowerBI.csv
  2_Prediction_Metrics_for_PowerBI.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPipeline(cmd.Context(), opts, args[0], args[1])
			if err != nil {
				stage := core.StageOf(err)
				if stage == "" {
					stage = "run"
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "segkit: %s stage failed: %v\n", stage, err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "pipeline config file (YAML or JSON); defaults to the built-in pipeline")
	f.StringVarP(&opts.outputDir, "output-dir", "o", ".", "directory for the exported CSV files")
	f.StringVar(&opts.segmentSep, "segment-sep", "", "segment file separator (default \";\")")
	f.StringVar(&opts.ratingsSep, "ratings-sep", "", "ratings file separator (default \",\")")
	f.StringVar(&opts.modelPath, "model-path", "", "save the trained tree as JSON")
	f.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics for the node-exporter textfile collector")
	f.StringVar(&opts.redisAddr, "redis-addr", "", "publish labels to this Redis server")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

func runPipeline(ctx context.Context, opts *runOptions, segmentsPath, ratingsPath string) error {
	level, err := zerolog.ParseLevel(opts.logLevel)
	if err != nil {
		return core.WrapError(core.StageConfig, core.ErrorCodeInvalidInput, "log level", err)
	}
	logger := log.Logger.Level(level)

	in := config.Inputs{
		SegmentsPath:    segmentsPath,
		RatingsPath:     ratingsPath,
		OutputDir:       opts.outputDir,
		ModelPath:       opts.modelPath,
		RedisAddr:       opts.redisAddr,
		MetricsTextfile: opts.metricsTextfile,
	}
	if in.SegmentSeparator, err = parseSeparator("segment-sep", opts.segmentSep); err != nil {
		return err
	}
	if in.RatingsSeparator, err = parseSeparator("ratings-sep", opts.ratingsSep); err != nil {
		return err
	}

	var cfg *pipeline.Config
	if opts.configPath != "" {
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
		config.ApplyInputs(cfg, in)
	} else {
		cfg = config.DefaultConfig(in)
	}

	p, err := config.Build(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(); cerr != nil {
			logger.Warn().Err(cerr).Msg("close pipeline")
		}
	}()

	collector := metrics.NewCollector()
	p.Hooks = append(p.Hooks, collector)

	rctx := core.NewRunContext(uuid.NewString(), logger)
	rctx.Logger.Info().
		Str("pipeline", cfg.Pipeline.Name).
		Int("nodes", len(p.Nodes)).
		Str("segments", segmentsPath).
		Str("ratings", ratingsPath).
		Msg("run started")

	runErr := p.Run(ctx, rctx)
	collector.Finish(runErr)
	if cfg.MetricsTextfile != "" {
		if err := collector.WriteTextfile(cfg.MetricsTextfile); err != nil {
			rctx.Logger.Warn().Err(err).Str("path", cfg.MetricsTextfile).Msg("metrics textfile not written")
		}
	}
	if runErr != nil {
		return runErr
	}
	if m := rctx.Metrics; m != nil {
		rctx.Logger.Info().
			Float64("accuracy", m.Accuracy).
			Interface("confusion_matrix", m.Matrix()).
			Strs("outputs", rctx.Outputs).
			Msg("run finished")
	}
	return nil
}

func parseSeparator(flag, s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || r == utf8.RuneError {
		return 0, core.Errorf(core.StageConfig, core.ErrorCodeInvalidInput, "--%s must be a single character, got %q", flag, s)
	}
	return r, nil
}
