// Package mirror pushes the session table to a GitHub repository as a
// best-effort backup. The local file is always the source of truth: a
// failed push is reported to the caller but never rolls back or blocks the
// local write.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"github.com/arnoldtRealph/intervensie/app/config"
)

// ErrDisabled is returned by Push when no token/repo is configured.
var ErrDisabled = errors.New("github sync not configured")

const commitMessage = "Update intervensie CSV"

type Mirror struct {
	client     *github.Client
	owner      string
	repo       string
	branch     string
	remotePath string
}

// New builds a Mirror from configuration. A missing token or repo yields a
// disabled mirror whose Push reports ErrDisabled. The repo setting accepts
// "owner/name" or a full github.com URL.
func New(cfg config.GitHubConfig) *Mirror {
	if cfg.Token == "" || cfg.Repo == "" {
		return &Mirror{}
	}

	owner, repo, ok := splitRepo(cfg.Repo)
	if !ok {
		return &Mirror{}
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	return &Mirror{
		client:     github.NewClient(oauth2.NewClient(context.Background(), ts)),
		owner:      owner,
		repo:       repo,
		branch:     cfg.Branch,
		remotePath: cfg.RemotePath,
	}
}

// NewWithClient wires an explicit API client; used by tests.
func NewWithClient(client *github.Client, owner, repo, branch, remotePath string) *Mirror {
	return &Mirror{client: client, owner: owner, repo: repo, branch: branch, remotePath: remotePath}
}

// Enabled reports whether a push would attempt the network at all.
func (m *Mirror) Enabled() bool {
	return m.client != nil
}

// Remote describes the configured target, for the settings surface.
func (m *Mirror) Remote() string {
	if !m.Enabled() {
		return ""
	}
	return fmt.Sprintf("%s/%s@%s:%s", m.owner, m.repo, m.branch, m.remotePath)
}

// Push uploads localPath to the fixed remote path, updating the existing
// remote file when one is there and creating it otherwise. A remote
// "not found" on the probe means create, not failure.
func (m *Mirror) Push(ctx context.Context, localPath string) error {
	if !m.Enabled() {
		return ErrDisabled
	}

	content, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read local table: %w", err)
	}

	var sha *string
	fc, _, resp, err := m.client.Repositories.GetContents(ctx, m.owner, m.repo, m.remotePath,
		&github.RepositoryContentGetOptions{Ref: m.branch})
	switch {
	case err == nil && fc != nil:
		sha = fc.SHA
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		// first push, create below
	case err != nil:
		return fmt.Errorf("probe remote file: %w", err)
	default:
		return errors.New("remote path is not a file")
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(commitMessage),
		Content: content,
		Branch:  github.String(m.branch),
		SHA:     sha,
	}
	if sha != nil {
		_, _, err = m.client.Repositories.UpdateFile(ctx, m.owner, m.repo, m.remotePath, opts)
	} else {
		_, _, err = m.client.Repositories.CreateFile(ctx, m.owner, m.repo, m.remotePath, opts)
	}
	if err != nil {
		return fmt.Errorf("push to github: %w", err)
	}
	return nil
}

func splitRepo(s string) (owner, repo string, ok bool) {
	s = strings.TrimPrefix(s, "https://github.com/")
	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
