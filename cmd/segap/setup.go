package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/segap/segap/internal/logging"
	"github.com/segap/segap/internal/source"
	"github.com/segap/segap/pkg/config"
	"github.com/segap/segap/pkg/questionnaire"
	"github.com/segap/segap/pkg/scoring"
	"github.com/segap/segap/pkg/survey"
	"github.com/segap/segap/pkg/weights"
)

// globalOpts holds the persistent flags shared by every subcommand.
type globalOpts struct {
	configPath string
	questions  string
	weights    string
	sheet      string
	pageSize   int
	logLevel   string
	verbose    bool
}

// session is everything a subcommand needs to run one survey.
type session struct {
	id        string
	cfg       *config.Config
	logger    *zap.Logger
	closeLog  func()
	questions *questionnaire.QuestionSet
	engine    *scoring.Engine
}

// loadConfig resolves the config file, then applies environment variables
// and flags on top of it.
func loadConfig(opts *globalOpts) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		if cwd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(cwd)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.Inputs.Questions = firstNonEmpty(opts.questions, cfg.Inputs.Questions)
	cfg.Inputs.Weights = firstNonEmpty(opts.weights, cfg.Inputs.Weights)
	cfg.Inputs.WeightsSheet = firstNonEmpty(opts.sheet, cfg.Inputs.WeightsSheet)
	cfg.Logging.Level = firstNonEmpty(opts.logLevel, cfg.Logging.Level)
	if opts.pageSize != 0 {
		cfg.Survey.PageSize = opts.pageSize
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the file logger, plus a stderr copy when verbose.
func newLogger(cfg *config.Config, verbose bool) (*zap.Logger, func(), error) {
	lo := logging.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.LogFile(),
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
		Compress:   cfg.Logging.Compress,
	}
	if verbose {
		lo.Console = os.Stderr
	}
	return logging.New(lo)
}

// loadInputs fetches and parses the question list and weight matrix and
// checks that their shapes agree. A dimension mismatch is returned before
// any survey is shown.
func loadInputs(ctx context.Context, cfg *config.Config) (*questionnaire.QuestionSet, *scoring.Engine, error) {
	srcOpts := source.Options{S3: cfg.Inputs.S3}

	qdata, err := source.Read(ctx, cfg.Inputs.Questions, srcOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("loading questions: %w", err)
	}
	questions, err := questionnaire.Parse(qdata)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing questions %s: %w", cfg.Inputs.Questions, err)
	}

	wdata, err := source.Read(ctx, cfg.Inputs.Weights, srcOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("loading weights: %w", err)
	}
	matrix, err := weights.Parse(cfg.Inputs.Weights, wdata, cfg.Inputs.WeightsSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing weights %s: %w", cfg.Inputs.Weights, err)
	}

	engine, err := scoring.NewEngine(questions.Len(), matrix, scoring.DefaultScenarios())
	if err != nil {
		return nil, nil, err
	}
	return questions, engine, nil
}

// openSession loads config, logging and inputs for a subcommand. The
// caller must call s.closeLog when done.
func openSession(ctx context.Context, opts *globalOpts) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := newLogger(cfg, opts.verbose)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	logger = logger.With(zap.String("session_id", id))

	start := time.Now()
	questions, engine, err := loadInputs(ctx, cfg)
	if err != nil {
		logger.Error("failed to load inputs", zap.Error(err))
		closeLog()
		return nil, err
	}
	logger.Info("inputs loaded",
		zap.String("questions_source", cfg.Inputs.Questions),
		zap.String("weights_source", cfg.Inputs.Weights),
		zap.Int("questions", questions.Len()),
		zap.Int("scenarios", len(engine.Scenarios())),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &session{
		id:        id,
		cfg:       cfg,
		logger:    logger,
		closeLog:  closeLog,
		questions: questions,
		engine:    engine,
	}, nil
}

func (s *session) newController() (*survey.Controller, error) {
	return survey.NewController(s.questions.Len(), s.engine,
		survey.WithPageSize(s.cfg.Survey.PageSize),
		survey.WithLogger(s.logger),
	)
}

// logCompletion records the tier counts of a finished survey.
func (s *session) logCompletion(report *scoring.Report) {
	counts := report.TierCounts()
	fields := make([]zap.Field, 0, len(scoring.Tiers))
	for _, t := range scoring.Tiers {
		fields = append(fields, zap.Int(string(t), counts[t]))
	}
	s.logger.Info("report generated", fields...)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
