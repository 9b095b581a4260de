// Package app wires the update pipeline: acquire a scratch workspace,
// clone the portfolio API and project repositories, extract the project's
// metadata from its README, merge it into the collection and publish the
// result.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/victorebouvie/portfoliosync/internal/collection"
	"github.com/victorebouvie/portfoliosync/internal/config"
	"github.com/victorebouvie/portfoliosync/internal/domain"
	"github.com/victorebouvie/portfoliosync/internal/gitops"
	"github.com/victorebouvie/portfoliosync/internal/readme"
	"github.com/victorebouvie/portfoliosync/internal/utils"
	"github.com/victorebouvie/portfoliosync/internal/workspace"
)

const (
	apiCloneDir     = "api"
	projectCloneDir = "project"
)

// Updater coordinates one portfolio update run
type Updater struct {
	config *config.Config
	git    *gitops.Client
	logger *utils.Logger
}

// UpdaterOptions contains options for creating an updater
type UpdaterOptions struct {
	Config  *config.Config
	Logger  *utils.Logger
	Verbose bool
}

// NewUpdater creates a new updater with the given configuration
func NewUpdater(opts UpdaterOptions) (*Updater, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := opts.Logger
	if logger == nil {
		logLevel := cfg.Logging.Level
		if opts.Verbose {
			logLevel = "debug"
		}
		logger = utils.NewLogger(utils.LoggerOptions{
			Level:   logLevel,
			Format:  cfg.Logging.Format,
			Verbose: opts.Verbose,
		})
	}

	return &Updater{
		config: cfg,
		git:    gitops.NewClient(cfg.Git, logger.WithComponent("git")),
		logger: logger,
	}, nil
}

// Run executes the update pipeline for one project repository. A
// duplicate project is a successful no-op. The scratch workspace is
// released on every exit path.
func (u *Updater) Run(ctx context.Context, projectURL string, dryRun bool) error {
	if strings.TrimSpace(projectURL) == "" {
		return domain.ErrInvalidURL
	}

	u.logger.Info().
		Str("project", projectURL).
		Str("api", u.config.API.RepoURL).
		Msg("Starting portfolio update")

	ctx, cancel := context.WithTimeout(ctx, u.config.Git.Timeout)
	defer cancel()

	ws, err := workspace.New(u.logger.WithComponent("workspace"))
	if err != nil {
		return err
	}
	defer ws.Close()

	apiDir, err := ws.Dir(apiCloneDir)
	if err != nil {
		return err
	}
	projectDir, err := ws.Dir(projectCloneDir)
	if err != nil {
		return err
	}

	apiRepo, err := u.git.Clone(ctx, u.config.API.RepoURL, apiDir)
	if err != nil {
		return err
	}
	if _, err := u.git.Clone(ctx, projectURL, projectDir); err != nil {
		return err
	}

	content, err := readme.Load(projectDir)
	if err != nil {
		return fmt.Errorf("reading project README: %w", err)
	}

	record := readme.Extract(content)
	record.GithubURL = projectURL
	u.warnExtractionGaps(record)

	jsonPath := filepath.Join(apiDir, u.config.API.JSONFile)
	col, err := collection.Load(jsonPath)
	if err != nil {
		return err
	}

	merged, inserted := collection.Merge(col, *record)
	if !inserted {
		u.logger.Info().
			Str("name", record.Name).
			Msg("Project already in portfolio, nothing to do")
		return nil
	}

	if err := collection.Save(jsonPath, merged); err != nil {
		return err
	}

	newID := merged[len(merged)-1].ID
	u.logger.Info().
		Str("name", record.Name).
		Int("id", newID).
		Int("total", len(merged)).
		Msg("Project added to collection")

	if dryRun {
		u.logger.Info().Msg("Dry run, skipping commit and push")
		return nil
	}

	if err := u.git.StageAll(apiRepo); err != nil {
		return err
	}

	message := fmt.Sprintf("feat: add '%s' project to portfolio", record.Name)
	committed, err := u.git.Commit(apiRepo, message)
	if err != nil {
		return err
	}
	if !committed {
		u.logger.Warn().Msg("No changes to commit, skipping push")
		return nil
	}

	if err := u.git.Push(ctx, apiRepo); err != nil {
		return err
	}

	u.logger.Info().Str("name", record.Name).Msg("Portfolio update completed")
	return nil
}

// warnExtractionGaps logs a warning per missing README field; gaps are
// recoverable and the record is published with empty values.
func (u *Updater) warnExtractionGaps(rec *domain.ProjectRecord) {
	if rec.Name == "" {
		u.logger.Warn().Msg("README has no level-1 heading, project name is empty")
	}
	if rec.Description == "" {
		u.logger.Warn().Msg("README has no About The Project section, description is empty")
	}
	if len(rec.Technologies) == 0 {
		u.logger.Warn().Msg("README has no technology badges")
	}
}
