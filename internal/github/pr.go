package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoPRFound indicates no pull request exists for the given number or
// the caller lacks access to it.
var ErrNoPRFound = errors.New("no pull request found")

// MergeableConflicting is GitHub's mergeable state for a PR with
// unresolved merge conflicts.
const MergeableConflicting = "CONFLICTING"

// PRInfo holds the PR fields the precheck workflow needs.
type PRInfo struct {
	HeadRefName string `json:"headRefName"`
	BaseRefName string `json:"baseRefName"`
	Mergeable   string `json:"mergeable"`
	HeadRefOid  string `json:"headRefOid"`
}

// HeadShort returns the first seven characters of the head commit SHA.
func (p PRInfo) HeadShort() string {
	if len(p.HeadRefOid) < 7 {
		return p.HeadRefOid
	}
	return p.HeadRefOid[:7]
}

// parsePRViewJSON parses the JSON output from gh pr view.
func parsePRViewJSON(data []byte) (PRInfo, error) {
	var info PRInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return PRInfo{}, fmt.Errorf("failed to parse PR view response: %w", err)
	}
	info.HeadRefName = strings.TrimSpace(info.HeadRefName)
	info.BaseRefName = strings.TrimSpace(info.BaseRefName)
	info.Mergeable = strings.TrimSpace(info.Mergeable)
	info.HeadRefOid = strings.TrimSpace(info.HeadRefOid)
	return info, nil
}

// ViewPR fetches head/base refs, mergeable state, and head commit SHA
// for a PR. Returns ErrNoPRFound when the PR does not exist or is not
// accessible.
func ViewPR(ctx context.Context, prNumber int) (PRInfo, error) {
	cmd := exec.CommandContext(ctx, "gh", "pr", "view", strconv.Itoa(prNumber),
		"--json", "headRefName,baseRefName,mergeable,headRefOid")
	out, err := cmd.Output()
	if err != nil {
		if classified := classifyGHError(err); errors.Is(classified, ErrGHNotFound) || errors.Is(classified, ErrNotAuthenticated) {
			return PRInfo{}, classified
		}
		return PRInfo{}, ErrNoPRFound
	}
	info, err := parsePRViewJSON(out)
	if err != nil {
		return PRInfo{}, ErrNoPRFound
	}
	return info, nil
}

// PRDetails carries the richer field set used to build the per-round
// context file.
type PRDetails struct {
	Number     int    `json:"number"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	IsDraft    bool   `json:"isDraft"`
	BaseRef    string `json:"baseRefName"`
	HeadRef    string `json:"headRefName"`
	BaseRefOid string `json:"baseRefOid"`
	HeadRefOid string `json:"headRefOid"`
	Labels     []struct {
		Name string `json:"name"`
	} `json:"labels"`
	Comments []PRComment `json:"comments"`
}

// PRComment is one conversation comment as returned by gh pr view.
type PRComment struct {
	Author struct {
		Login string `json:"login"`
	} `json:"author"`
	Body string `json:"body"`
}

// LabelNames returns the PR's label names, skipping unnamed entries.
func (d PRDetails) LabelNames() []string {
	var names []string
	for _, l := range d.Labels {
		if l.Name != "" {
			names = append(names, l.Name)
		}
	}
	return names
}

// ViewPRDetails fetches the context-file field set for a PR in the
// given repository. Returns ErrNoPRFound when the PR does not exist or
// is not accessible.
func ViewPRDetails(ctx context.Context, ownerRepo string, prNumber int) (PRDetails, error) {
	cmd := exec.CommandContext(ctx, "gh", "pr", "view", strconv.Itoa(prNumber),
		"--repo", ownerRepo,
		"--json", "number,url,title,body,isDraft,labels,baseRefName,headRefName,baseRefOid,headRefOid,comments")
	out, err := cmd.Output()
	if err != nil {
		return PRDetails{}, ErrNoPRFound
	}
	var details PRDetails
	if err := json.Unmarshal(out, &details); err != nil {
		return PRDetails{}, ErrNoPRFound
	}
	return details, nil
}

// CheckoutPR checks out the PR's head branch.
func CheckoutPR(ctx context.Context, prNumber int) error {
	cmd := exec.CommandContext(ctx, "gh", "pr", "checkout", strconv.Itoa(prNumber))
	if out, err := cmd.CombinedOutput(); err != nil {
		errMsg := strings.TrimSpace(string(out))
		if errMsg != "" {
			return fmt.Errorf("failed to checkout PR #%d: %s", prNumber, errMsg)
		}
		return fmt.Errorf("failed to checkout PR #%d: %w", prNumber, err)
	}
	return nil
}

// DefaultBranch returns the repository's default branch name, or "" on
// error. Used as the base-ref fallback when a PR view omits baseRefName.
func DefaultBranch(ctx context.Context) string {
	cmd := exec.CommandContext(ctx, "gh", "repo", "view",
		"--json", "defaultBranchRef", "--jq", ".defaultBranchRef.name")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// RepoNameWithOwner resolves the "owner/repo" slug, preferring an
// explicit override when it already carries a slash.
func RepoNameWithOwner(ctx context.Context, explicit string) string {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" && strings.Contains(explicit, "/") {
		return explicit
	}
	cmd := exec.CommandContext(ctx, "gh", "repo", "view",
		"--json", "nameWithOwner", "--jq", ".nameWithOwner")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// CommentWithFile posts a PR comment from a body file.
func CommentWithFile(ctx context.Context, prNumber int, bodyPath string) error {
	cmd := exec.CommandContext(ctx, "gh", "pr", "comment", strconv.Itoa(prNumber), "--body-file", bodyPath)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to comment on PR #%d: %w", prNumber, err)
	}
	return nil
}

// IssueComment is one top-level PR conversation comment.
type IssueComment struct {
	Body string `json:"body"`
	User struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListIssueComments fetches all top-level conversation comments for a PR.
func ListIssueComments(ctx context.Context, prNumber int) ([]IssueComment, error) {
	data, err := apiJSON(ctx, fmt.Sprintf("repos/:owner/:repo/issues/%d/comments", prNumber), "--paginate")
	if err != nil {
		return nil, err
	}
	var comments []IssueComment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("failed to parse issue comments: %w", err)
	}
	return comments, nil
}

// CommentExists reports whether a loop comment with the same marker,
// type header, and run id is already posted on the PR. Any failure
// reports false so a transient API error cannot suppress a post.
func CommentExists(ctx context.Context, prNumber int, marker, typeHeader, runID string) bool {
	comments, err := ListIssueComments(ctx, prNumber)
	if err != nil {
		return false
	}
	return hasMatchingComment(comments, marker, typeHeader, runID)
}

func hasMatchingComment(comments []IssueComment, marker, typeHeader, runID string) bool {
	runIDPattern := "RunId: " + runID
	for _, c := range comments {
		if strings.Contains(c.Body, marker) &&
			strings.Contains(c.Body, typeHeader) &&
			strings.Contains(c.Body, runIDPattern) {
			return true
		}
	}
	return false
}

// apiJSON runs gh api with the given endpoint and flags and returns the
// raw response body.
func apiJSON(ctx context.Context, endpoint string, extra ...string) ([]byte, error) {
	args := append([]string{"api", endpoint}, extra...)
	cmd := exec.CommandContext(ctx, "gh", args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, classifyGHError(err)
	}
	return out, nil
}
