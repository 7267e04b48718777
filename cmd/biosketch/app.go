package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/biosketch-checker/internal/config"
	"github.com/jonathan/biosketch-checker/internal/db"
	"github.com/jonathan/biosketch-checker/internal/enhance"
	"github.com/jonathan/biosketch-checker/internal/observability"
	"github.com/jonathan/biosketch-checker/internal/pipeline"
	"github.com/jonathan/biosketch-checker/internal/templates"
	"github.com/jonathan/biosketch-checker/internal/types"
)

var (
	configPath   string
	templatePath string
	apiKey       string
	databaseURL  string
	verbose      bool
	useEnhancer  bool
)

// app holds the resolved configuration and logger for the running command.
var app struct {
	cfg    config.Config
	logger *zap.Logger
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	flags.StringVar(&templatePath, "template", "", "Path to a template JSON or YAML file (default: embedded NIH template, env "+config.EnvTemplate+")")
	flags.StringVar(&apiKey, "api-key", "", "Gemini API key (overrides "+config.EnvAPIKey+")")
	flags.StringVar(&databaseURL, "db-url", "", "PostgreSQL URL (overrides "+config.EnvDatabaseURL+")")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&useEnhancer, "enhance", false, "Use the LLM enhancer for headings, citations and the draft")
}

// resolveConfig layers the environment, the config file and explicit flags,
// in increasing priority.
func resolveConfig(cmd *cobra.Command, getenv func(string) string) (config.Config, error) {
	cfg := config.EnvDefaults(getenv)
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	flags := cmd.Flags()
	if flags.Changed("template") {
		cfg.Template = templatePath
	}
	if flags.Changed("api-key") {
		cfg.APIKey = apiKey
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("enhance") {
		cfg.Enhance = useEnhancer
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, os.Getenv)
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.logger = logger
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}

// loadTemplate returns the configured template or the embedded default.
func loadTemplate() (*types.TemplateConfig, error) {
	return templates.Get(app.cfg.Template)
}

// newProcessor builds the pipeline for the configured template and enhancer.
// The returned enhancer must be closed by the caller.
func newProcessor(ctx context.Context) (*pipeline.Processor, enhance.Enhancer, error) {
	template, err := loadTemplate()
	if err != nil {
		return nil, nil, err
	}

	var enhancer enhance.Enhancer = enhance.Noop{}
	if app.cfg.Enhance {
		enhancer, err = enhance.Open(ctx, app.cfg.APIKey, template, app.logger)
		if err != nil {
			return nil, nil, err
		}
	}

	processor, err := pipeline.New(pipeline.Options{
		Template: template,
		Enhancer: enhancer,
		Logger:   app.logger,
	})
	if err != nil {
		_ = enhancer.Close()
		return nil, nil, err
	}
	return processor, enhancer, nil
}

// processFile runs one file through a fresh processor.
func processFile(ctx context.Context, path string) (*types.ValidationResult, error) {
	processor, enhancer, err := newProcessor(ctx)
	if err != nil {
		return nil, err
	}
	defer enhancer.Close() //nolint:errcheck

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return processor.Process(ctx, pipeline.Input{Filename: path, Data: data})
}

// connectStore opens the report database.
func connectStore(ctx context.Context) (*db.DB, error) {
	if app.cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("%s or --db-url is required", config.EnvDatabaseURL)
	}
	database, err := db.Connect(ctx, app.cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
