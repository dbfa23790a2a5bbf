package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-ir-engine/config"
	"github.com/gcbaptista/go-ir-engine/internal/logging"
)

const version = "1.0.0"

const (
	modeServe       = "serve"
	modeInteractive = "interactive"
	modeEvaluate    = "evaluate"
)

func main() {
	flags := pflag.NewFlagSet("search_engine", pflag.ContinueOnError)
	var (
		help       = flags.BoolP("help", "h", false, "Show help message")
		showVer    = flags.Bool("version", false, "Show version information")
		configPath = flags.StringP("config", "c", "", "Path to a YAML config file")
		mode       = flags.StringP("mode", "m", modeServe, "Run mode: serve, interactive or evaluate")
		corpusKind = flags.String("corpus", "", "Collection to index: cisi, reuters or reuters-sgml (overrides config)")
		corpusPath = flags.String("corpus-path", "", "Directory holding the collection files (overrides config)")
		port       = flags.IntP("port", "p", 0, "Port to run the server on (overrides config)")
		report     = flags.String("report", "", "Write the evaluation report to this .json or .yaml file")
		extra      = flags.StringToString("evaluate-also", nil, "Additional kind=path collections evaluated from interactive mode")
	)

	if err := flags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if *help {
		fmt.Printf("IR Engine - Boolean, TF-IDF and BM25 retrieval over CISI and Reuters\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		fmt.Print(flags.FlagUsages())
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                                        # Serve the configured collection on port 8080\n", os.Args[0])
		fmt.Printf("  %s --corpus cisi --corpus-path data/cisi  # Serve CISI\n", os.Args[0])
		fmt.Printf("  %s -m interactive --evaluate-also cisi=data/cisi\n", os.Args[0])
		fmt.Printf("  %s -m evaluate --report out/eval.yaml     # Evaluate every method and save the report\n", os.Args[0])
		return
	}

	if *showVer {
		fmt.Printf("IR Engine v%s\n", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *corpusKind != "" {
		cfg.Corpus.Kind = *corpusKind
	}
	if *corpusPath != "" {
		cfg.Corpus.Path = *corpusPath
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(cfg, logger)
	switch *mode {
	case modeServe:
		err = app.serve(ctx)
	case modeInteractive:
		err = app.interactive(ctx, os.Stdin, os.Stdout, *extra)
	case modeEvaluate:
		err = app.evaluate(ctx, os.Stdout, *report)
	default:
		err = fmt.Errorf("unknown mode '%s' (expected %s, %s or %s)", *mode, modeServe, modeInteractive, modeEvaluate)
	}
	if err != nil {
		logger.Error("exiting with error", zap.String("mode", *mode), zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
