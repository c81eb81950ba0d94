// Package harvest collects a PR's review material from GitHub and
// persists it as a raw JSON snapshot in the repo cache.
package harvest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/richhaase/pr-review-loop/internal/cache"
	"github.com/richhaase/pr-review-loop/internal/github"
)

// Payload is the raw harvest snapshot: inline review threads, submitted
// reviews, and conversation comments, with the loop's own comments
// removed.
type Payload struct {
	Repo          string                `json:"repo"`
	PR            int                   `json:"pr"`
	Round         int                   `json:"round"`
	RunID         string                `json:"runId"`
	GeneratedAt   string                `json:"generatedAt"`
	ReviewThreads []github.ReviewThread `json:"reviewThreads"`
	Reviews       []map[string]any      `json:"reviews"`
	IssueComments []map[string]any      `json:"issueComments"`
}

// RawBasename is the cache filename for one round's harvest snapshot.
func RawBasename(prNumber, round int, runID string) string {
	return fmt.Sprintf("gh-review-raw-pr%d-r%d-%s.json", prNumber, round, runID)
}

// Collect fetches all review material for a PR and assembles the
// snapshot payload.
func Collect(ctx context.Context, ownerRepo string, prNumber, round int, runID string) (Payload, error) {
	owner, repo, ok := strings.Cut(ownerRepo, "/")
	if !ok {
		return Payload{}, fmt.Errorf("invalid repo slug %q", ownerRepo)
	}

	threads, err := github.FetchReviewThreads(ctx, owner, repo, prNumber)
	if err != nil {
		return Payload{}, err
	}
	reviews, err := github.ListReviews(ctx, ownerRepo, prNumber)
	if err != nil {
		return Payload{}, err
	}
	comments, err := github.ListIssueCommentsRaw(ctx, ownerRepo, prNumber)
	if err != nil {
		return Payload{}, err
	}

	if threads == nil {
		threads = []github.ReviewThread{}
	}
	return Payload{
		Repo:          ownerRepo,
		PR:            prNumber,
		Round:         round,
		RunID:         runID,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		ReviewThreads: threads,
		Reviews:       github.FilterLoopComments(reviews),
		IssueComments: github.FilterLoopComments(comments),
	}, nil
}

// Write persists the snapshot to the cache and returns the repo-relative
// path of the raw file.
func Write(paths cache.Paths, p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode harvest payload: %w", err)
	}
	basename := RawBasename(p.PR, p.Round, p.RunID)
	if err := paths.WriteText(basename, string(data)); err != nil {
		return "", err
	}
	return paths.RelPath(paths.File(basename)), nil
}
