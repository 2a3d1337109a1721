package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/internal/project"
	"github.com/simonhull/firebird-suite/heron/pkg/analyzer"
	"github.com/simonhull/firebird-suite/heron/pkg/config"
	"github.com/simonhull/firebird-suite/heron/pkg/logger"
	"github.com/simonhull/firebird-suite/heron/pkg/model"
)

type scanOptions struct {
	lang               string
	out                string
	configPath         string
	ids                string
	implicitImplements bool
	metricsFile        string
}

// ScanCmd analyzes a project and writes its model artifact.
func ScanCmd() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Extract the class model of a project",
		Long: `Analyzes a Go or Kotlin project and writes the structural model as JSON.

The language is detected from the project layout unless --lang is given.
Settings are read from heron.yaml in the project directory; flags win
over the file.

Example:
  heron scan
  heron scan ./services/billing --out billing.json
  heron scan ../android-app --lang kotlin --ids random`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "Source language (go, kotlin)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Artifact path (default from config: heron.json)")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (default <path>/heron.yaml)")
	cmd.Flags().StringVar(&opts.ids, "ids", "", "Element id scheme (deterministic, random)")
	cmd.Flags().BoolVar(&opts.implicitImplements, "implicit-implements", false, "Go: report interfaces a struct satisfies")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *scanOptions) error {
	projectPath := "."
	if len(args) > 0 {
		projectPath = args[0]
	}

	cfg, err := loadScanConfig(cmd, projectPath, opts)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd, cfg.LogLevel)
	if err != nil {
		return err
	}

	lang := cfg.Language
	if lang == "" {
		lang = project.DetectLanguage(cfg.Root)
		output.Verbose(fmt.Sprintf("Detected language: %q", lang))
	}

	provider, err := newProvider(lang, cfg, log)
	if err != nil {
		return err
	}
	ids, err := analyzer.ParseIDScheme(cfg.IDs)
	if err != nil {
		return err
	}

	output.Info(fmt.Sprintf("Analyzing %s project: %s", lang, cfg.Root))

	a := analyzer.NewAnalyzer(provider,
		analyzer.WithLogger(log),
		analyzer.WithIDs(ids),
		analyzer.WithPasses(analyzer.Passes{
			Inheritance: cfg.Passes.Inheritance,
			Aggregation: cfg.Passes.Aggregation,
			Uses:        cfg.Passes.Uses,
		}),
	)
	graph, err := a.Analyze(cmd.Context())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printSummary(graph)

	if err := model.WriteFile(cfg.Output, graph); err != nil {
		return err
	}
	output.Success("Wrote " + cfg.Output)

	if cfg.MetricsFile != "" {
		if err := analyzer.WriteMetrics(cfg.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		output.Step("Metrics: " + cfg.MetricsFile)
	}
	return nil
}

// loadScanConfig reads heron.yaml and applies the path argument and flags.
func loadScanConfig(cmd *cobra.Command, projectPath string, opts *scanOptions) (*config.Config, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = filepath.Join(projectPath, config.DefaultFile)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if projectPath != "." || cfg.Root == "" {
		cfg.Root = projectPath
	}

	flags := cmd.Flags()
	if flags.Changed("lang") {
		cfg.Language = opts.lang
	}
	if flags.Changed("out") {
		cfg.Output = opts.out
	}
	if flags.Changed("ids") {
		cfg.IDs = opts.ids
	}
	if flags.Changed("implicit-implements") {
		cfg.ImplicitImplements = opts.implicitImplements
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = opts.metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	output.Verbose("Config: " + configPath)
	return cfg, nil
}

// newLogger builds the run logger on the command's stderr. Verbose mode
// forces debug level.
func newLogger(cmd *cobra.Command, levelName string) (logger.Logger, error) {
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	if output.IsVerbose() {
		level = logger.LevelDebug
	}
	log := logger.NewLogger(level, cmd.ErrOrStderr())
	logger.SetDefault(log)
	return log, nil
}

func printSummary(g *model.Graph) {
	stats := g.Stats()

	output.Header("Elements")
	rows := make([][]string, 0, len(model.ElementKinds()))
	for _, k := range model.ElementKinds() {
		rows = append(rows, []string{k.String(), strconv.Itoa(stats.Elements[k])})
	}
	output.Table(rows)

	output.Header("Connections")
	rows = rows[:0]
	for _, k := range model.ConnectionKinds() {
		rows = append(rows, []string{k.String(), strconv.Itoa(stats.Connections[k])})
	}
	output.Table(rows)
}
