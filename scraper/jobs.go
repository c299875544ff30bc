package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/user-none/yaffe/jobs"
)

// PlatformResult is the value of a finished jobs.SearchPlatform.
type PlatformResult struct {
	Job     jobs.SearchPlatform
	Matches []PlatformMatch
	// Files are the regular files in the platform folder, sorted.
	Files []string
}

// GameResult is the value of a finished jobs.SearchGame.
type GameResult struct {
	Job     jobs.SearchGame
	Matches []GameMatch
}

// HandleSearchPlatform is the jobs.Handler for jobs.KindSearchPlatform.
// Without an API key the folder is still listed and no matches are returned.
func (c *Client) HandleSearchPlatform(ctx context.Context, job jobs.Job) (any, error) {
	j, ok := job.(jobs.SearchPlatform)
	if !ok {
		return nil, fmt.Errorf("unexpected job %s", job.Kind())
	}

	files, err := ListFolder(j.Folder)
	if err != nil {
		return nil, err
	}
	matches, err := c.SearchPlatforms(ctx, j.Name)
	if err != nil && !errors.Is(err, ErrNoAPIKey) {
		return nil, err
	}
	return PlatformResult{Job: j, Matches: matches, Files: files}, nil
}

// HandleSearchGame is the jobs.Handler for jobs.KindSearchGame. Without an
// API key it returns no matches.
func (c *Client) HandleSearchGame(ctx context.Context, job jobs.Job) (any, error) {
	j, ok := job.(jobs.SearchGame)
	if !ok {
		return nil, fmt.Errorf("unexpected job %s", job.Kind())
	}

	matches, err := c.SearchGames(ctx, j.Name, j.Platform)
	if err != nil && !errors.Is(err, ErrNoAPIKey) {
		return nil, err
	}
	return GameResult{Job: j, Matches: matches}, nil
}

// ListFolder returns the regular, non-hidden files in dir as full paths.
// An empty dir lists nothing.
func ListFolder(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read folder: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	slices.Sort(out)
	return out, nil
}

// GameName derives a search name from a file path: the base name without
// its extension, with any trailing "(...)" or "[...]" tags removed.
func GameName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if i := strings.IndexAny(name, "(["); i > 0 {
		name = name[:i]
	}
	return strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
}
