// Package gitops drives the version-control operations of one update
// run: clone the two repositories, stage the rewritten collection file,
// commit and push.
package gitops

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/victorebouvie/portfoliosync/internal/config"
	"github.com/victorebouvie/portfoliosync/internal/domain"
	"github.com/victorebouvie/portfoliosync/internal/utils"
)

// Client performs git operations against working copies inside the
// scratch workspace. SSH remotes authenticate through the agent via
// go-git's default auth; HTTPS remotes pick up GITHUB_TOKEN when set.
type Client struct {
	cfg    config.GitConfig
	logger *utils.Logger
}

// NewClient creates a new Client
func NewClient(cfg config.GitConfig, logger *utils.Logger) *Client {
	return &Client{cfg: cfg, logger: logger}
}

// Clone clones url into dest. Failure is fatal to the run.
func (c *Client) Clone(ctx context.Context, url, dest string) (*git.Repository, error) {
	if c.logger != nil {
		c.logger.Info().Str("url", url).Msg("Cloning repository")
	}

	repo, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:   url,
		Depth: c.cfg.CloneDepth,
		Auth:  authFor(url),
	})
	if err != nil {
		return nil, domain.NewGitError("clone", url, err)
	}
	return repo, nil
}

// StageAll stages every change in the repository's worktree.
func (c *Client) StageAll(repo *git.Repository) error {
	wt, err := repo.Worktree()
	if err != nil {
		return domain.NewGitError("stage", "", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return domain.NewGitError("stage", "", err)
	}
	return nil
}

// Commit records staged changes. A clean worktree is a no-op, not an
// error; the returned bool reports whether a commit was created.
func (c *Client) Commit(repo *git.Repository, message string) (bool, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return false, domain.NewGitError("commit", "", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, domain.NewGitError("commit", "", err)
	}
	if status.IsClean() {
		if c.logger != nil {
			c.logger.Debug().Msg("Worktree clean, nothing to commit")
		}
		return false, nil
	}

	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  c.cfg.CommitterName,
			Email: c.cfg.CommitterEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return false, domain.NewGitError("commit", "", err)
	}

	if c.logger != nil {
		c.logger.Info().Str("message", message).Msg("Committed changes")
	}
	return true, nil
}

// Push updates the origin remote. Failure is fatal and carries the
// transport's diagnostic.
func (c *Client) Push(ctx context.Context, repo *git.Repository) error {
	url := remoteURL(repo)

	if c.logger != nil {
		c.logger.Info().Str("url", url).Msg("Pushing to remote")
	}

	err := repo.PushContext(ctx, &git.PushOptions{Auth: authFor(url)})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return domain.NewGitError("push", url, err)
	}
	return nil
}

// authFor returns token auth for HTTPS remotes when GITHUB_TOKEN is set.
// Other transports return nil and use go-git's defaults (ssh-agent for
// SSH remotes).
func authFor(url string) transport.AuthMethod {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil
	}
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil
	}
	return &githttp.BasicAuth{
		Username: "token",
		Password: token,
	}
}

// remoteURL returns the origin URL, or "" when no origin exists.
func remoteURL(repo *git.Repository) string {
	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
