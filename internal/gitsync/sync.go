// Package gitsync mirrors a remote git repository of declarations into the
// local declaration directory.
package gitsync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"wrangle/internal/config"
	"wrangle/pkg/logging"
)

// Syncer keeps a local checkout of the declaration repository up to date.
// Only HTTP(S) remotes are supported; a personal access token goes in the
// password field.
type Syncer struct {
	cfg      config.GitSyncConfig
	destPath string
}

// New creates a syncer that mirrors cfg.URL into destPath.
func New(cfg config.GitSyncConfig, destPath string) (*Syncer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("git sync URL cannot be empty")
	}
	if destPath == "" {
		return nil, fmt.Errorf("git sync destination cannot be empty")
	}
	return &Syncer{cfg: cfg, destPath: destPath}, nil
}

// Sync clones the repository on first use and pulls afterwards. An
// already-up-to-date pull is a successful no-op. It reports whether the
// checkout changed.
func (s *Syncer) Sync(ctx context.Context) (bool, error) {
	if _, err := os.Stat(filepath.Join(s.destPath, ".git")); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("failed to inspect checkout at %s: %w", s.destPath, err)
		}
		return true, s.clone(ctx)
	}
	return s.pull(ctx)
}

// clone performs the initial single-branch clone into the destination.
func (s *Syncer) clone(ctx context.Context) error {
	if err := os.MkdirAll(s.destPath, 0755); err != nil {
		return fmt.Errorf("failed to create checkout directory: %w", err)
	}

	options := &gogit.CloneOptions{
		URL:          s.cfg.URL,
		Auth:         s.auth(),
		SingleBranch: true,
	}
	if s.cfg.Branch != "" {
		options.ReferenceName = plumbing.NewBranchReferenceName(s.cfg.Branch)
	}

	if _, err := gogit.PlainCloneContext(ctx, s.destPath, false, options); err != nil {
		return fmt.Errorf("failed to clone %s: %w", s.cfg.URL, err)
	}

	logging.Info("GitSync", "Cloned declaration repository %s into %s", s.cfg.URL, s.destPath)
	return nil
}

// pull fast-forwards the existing checkout.
func (s *Syncer) pull(ctx context.Context) (bool, error) {
	repo, err := gogit.PlainOpen(s.destPath)
	if err != nil {
		return false, fmt.Errorf("failed to open repository at %s: %w", s.destPath, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree: %w", err)
	}

	options := &gogit.PullOptions{
		RemoteName:   "origin",
		Auth:         s.auth(),
		SingleBranch: true,
	}
	if s.cfg.Branch != "" {
		options.ReferenceName = plumbing.NewBranchReferenceName(s.cfg.Branch)
	}

	err = worktree.PullContext(ctx, options)
	if errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		logging.Debug("GitSync", "Declaration repository already up to date")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to pull %s: %w", s.cfg.URL, err)
	}

	logging.Info("GitSync", "Pulled declaration repository %s", s.cfg.URL)
	return true, nil
}

// auth builds basic-auth credentials when configured.
func (s *Syncer) auth() transport.AuthMethod {
	if s.cfg.Username == "" && s.cfg.Password == "" {
		return nil
	}

	username := s.cfg.Username
	if username == "" {
		// go-git requires a non-empty username with token auth.
		username = "wrangle"
	}
	return &http.BasicAuth{Username: username, Password: s.cfg.Password}
}
