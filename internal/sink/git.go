package sink

import (
	"fmt"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog/log"

	"github.com/Timmyway/scan-text/pkg/document"
)

// GitSink writes results into a git worktree and commits each save, keeping a
// reviewable history of what every batch extracted.
type GitSink struct {
	repo     *git.Repository
	repoPath string
	files    *FileSink
}

// NewGitSink opens the repository at repoPath, initializing one if absent.
func NewGitSink(repoPath string) (*GitSink, error) {
	repo, err := git.PlainOpen(repoPath)
	if err == git.ErrRepositoryNotExists {
		repo, err = git.PlainInit(repoPath, false)
	}
	if err != nil {
		return nil, fmt.Errorf("open git repository %s: %w", repoPath, err)
	}

	return &GitSink{
		repo:     repo,
		repoPath: repoPath,
		files:    NewFileSink(),
	}, nil
}

func (s *GitSink) SaveOne(result document.ExtractionResult, outputDir string) (string, error) {
	path, err := s.files.SaveOne(result, s.worktreeDir(outputDir))
	if err != nil {
		return "", err
	}

	if err := s.commit(path, fmt.Sprintf("Add extracted text for %s", filepath.Base(result.SourcePath))); err != nil {
		return "", err
	}
	return path, nil
}

func (s *GitSink) SaveCombined(results []document.ExtractionResult, outputPath string, strict bool) error {
	path := filepath.Join(s.repoPath, outputPath)
	if err := s.files.SaveCombined(results, path, strict); err != nil {
		return err
	}
	return s.commit(path, fmt.Sprintf("Add combined results (%d sources)", len(results)))
}

// worktreeDir maps a caller-relative output directory into the repository.
func (s *GitSink) worktreeDir(outputDir string) string {
	return filepath.Join(s.repoPath, outputDir)
}

func (s *GitSink) commit(absPath, message string) error {
	w, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}

	rel, err := filepath.Rel(s.repoPath, absPath)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", absPath, err)
	}
	if _, err := w.Add(rel); err != nil {
		return fmt.Errorf("stage %s: %w", rel, err)
	}

	commit, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "scan-text",
			Email: "scan-text@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("commit %s: %w", rel, err)
	}

	log.Debug().Str("commit", commit.String()).Str("path", rel).Msg("Committed extracted text")
	return nil
}
