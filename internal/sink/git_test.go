package sink

import (
	"os"
	"path/filepath"
	"testing"

	git "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Timmyway/scan-text/pkg/document"
)

func TestGitSink_InitializesRepository(t *testing.T) {
	repoPath := t.TempDir()

	_, err := NewGitSink(repoPath)
	require.NoError(t, err)

	_, err = git.PlainOpen(repoPath)
	assert.NoError(t, err, "a fresh directory should end up as a usable repository")
}

func TestGitSink_SaveOneCommits(t *testing.T) {
	repoPath := t.TempDir()
	s, err := NewGitSink(repoPath)
	require.NoError(t, err)

	res := document.ExtractionResult{
		SourcePath: "images/receipt.png",
		Text:       "Total: 12.50",
	}

	path, err := s.SaveOne(res, "results")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(repoPath, "results", "receipt.txt"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, res.Text, string(written))

	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err, "save must produce a commit")

	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Contains(t, commit.Message, "receipt.png")
}

func TestGitSink_SaveCombinedCommits(t *testing.T) {
	repoPath := t.TempDir()
	s, err := NewGitSink(repoPath)
	require.NoError(t, err)

	results := []document.ExtractionResult{
		{SourcePath: "a.png", Text: "Hello"},
		{SourcePath: "b.png", Text: "World"},
	}

	require.NoError(t, s.SaveCombined(results, filepath.Join("results", "all.txt"), false))

	written, err := os.ReadFile(filepath.Join(repoPath, "results", "all.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "Hello")
	assert.Contains(t, string(written), "World")

	repo, err := git.PlainOpen(repoPath)
	require.NoError(t, err)
	_, err = repo.Head()
	assert.NoError(t, err)
}

func TestGitSink_ReopensExistingRepository(t *testing.T) {
	repoPath := t.TempDir()
	_, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	s, err := NewGitSink(repoPath)
	require.NoError(t, err)

	_, err = s.SaveOne(document.ExtractionResult{SourcePath: "x.png", Text: "x"}, "out")
	assert.NoError(t, err)
}
