package github

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// MarkerSubstr matches any versioned form of the loop comment marker.
// Comments carrying it are the loop's own output and are excluded from
// harvested review material.
const MarkerSubstr = "<!-- pr-review-loop-marker"

// ThreadComment is one comment inside an inline review thread.
type ThreadComment struct {
	ID         string `json:"id"`
	DatabaseID int64  `json:"databaseId"`
	URL        string `json:"url"`
	Author     struct {
		Login string `json:"login"`
		Type  string `json:"type"`
	} `json:"author"`
	Body      string `json:"body"`
	BodyText  string `json:"bodyText"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ReviewThread is an inline review thread flattened for the harvest
// payload. Resolved and outdated threads are dropped at fetch time, so
// both flags are always false here.
type ReviewThread struct {
	ID                string          `json:"id"`
	IsResolved        bool            `json:"isResolved"`
	IsOutdated        bool            `json:"isOutdated"`
	Path              string          `json:"path"`
	Line              *int            `json:"line"`
	OriginalLine      *int            `json:"originalLine"`
	StartLine         *int            `json:"startLine"`
	OriginalStartLine *int            `json:"originalStartLine"`
	Comments          []ThreadComment `json:"comments"`
}

const reviewThreadsQuery = "query($owner:String!,$repo:String!,$prNumber:Int!,$after:String){" +
	"repository(owner:$owner,name:$repo){" +
	"pullRequest(number:$prNumber){" +
	"reviewThreads(first:100,after:$after){" +
	"pageInfo{hasNextPage endCursor}" +
	"nodes{" +
	"id isResolved isOutdated path line originalLine startLine originalStartLine " +
	"comments(first:100){nodes{" +
	"id databaseId url body bodyText createdAt updatedAt author{login __typename}" +
	"}}" +
	"}" +
	"}" +
	"}" +
	"}" +
	"}"

type gqlThreadsResponse struct {
	Data struct {
		Repository struct {
			PullRequest struct {
				ReviewThreads struct {
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
					Nodes []gqlThreadNode `json:"nodes"`
				} `json:"reviewThreads"`
			} `json:"pullRequest"`
		} `json:"repository"`
	} `json:"data"`
}

type gqlThreadNode struct {
	ID                string `json:"id"`
	IsResolved        bool   `json:"isResolved"`
	IsOutdated        bool   `json:"isOutdated"`
	Path              string `json:"path"`
	Line              *int   `json:"line"`
	OriginalLine      *int   `json:"originalLine"`
	StartLine         *int   `json:"startLine"`
	OriginalStartLine *int   `json:"originalStartLine"`
	Comments          struct {
		Nodes []gqlCommentNode `json:"nodes"`
	} `json:"comments"`
}

type gqlCommentNode struct {
	ID         string `json:"id"`
	DatabaseID int64  `json:"databaseId"`
	URL        string `json:"url"`
	Body       string `json:"body"`
	BodyText   string `json:"bodyText"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
	Author     struct {
		Login    string `json:"login"`
		Typename string `json:"__typename"`
	} `json:"author"`
}

func hasLoopMarker(text string) bool {
	return strings.Contains(text, MarkerSubstr)
}

// flattenThreads converts one GraphQL response page into harvest
// threads. Resolved and outdated threads are skipped, loop-marker
// comments are dropped, and threads left with no comments disappear.
func flattenThreads(data []byte) ([]ReviewThread, bool, string, error) {
	var resp gqlThreadsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, "", fmt.Errorf("failed to parse review threads response: %w", err)
	}

	conn := resp.Data.Repository.PullRequest.ReviewThreads
	var threads []ReviewThread
	for _, node := range conn.Nodes {
		if node.IsResolved || node.IsOutdated {
			continue
		}
		var comments []ThreadComment
		for _, c := range node.Comments.Nodes {
			if hasLoopMarker(c.Body) || hasLoopMarker(c.BodyText) {
				continue
			}
			tc := ThreadComment{
				ID:         c.ID,
				DatabaseID: c.DatabaseID,
				URL:        c.URL,
				Body:       c.Body,
				BodyText:   c.BodyText,
				CreatedAt:  c.CreatedAt,
				UpdatedAt:  c.UpdatedAt,
			}
			tc.Author.Login = c.Author.Login
			tc.Author.Type = c.Author.Typename
			comments = append(comments, tc)
		}
		if len(comments) == 0 {
			continue
		}
		threads = append(threads, ReviewThread{
			ID:                node.ID,
			Path:              node.Path,
			Line:              node.Line,
			OriginalLine:      node.OriginalLine,
			StartLine:         node.StartLine,
			OriginalStartLine: node.OriginalStartLine,
			Comments:          comments,
		})
	}

	return threads, conn.PageInfo.HasNextPage, conn.PageInfo.EndCursor, nil
}

// FetchReviewThreads pages through a PR's inline review threads via the
// GraphQL API, returning the unresolved, current threads with the
// loop's own comments removed.
func FetchReviewThreads(ctx context.Context, owner, repo string, prNumber int) ([]ReviewThread, error) {
	var all []ReviewThread
	after := ""
	for {
		args := []string{"api", "graphql",
			"-f", "query=" + reviewThreadsQuery,
			"-f", "owner=" + owner,
			"-f", "repo=" + repo,
			"-F", "prNumber=" + strconv.Itoa(prNumber),
			"-f", "after=" + after,
		}
		cmd := exec.CommandContext(ctx, "gh", args...)
		out, err := cmd.Output()
		if err != nil {
			return nil, classifyGHError(err)
		}
		threads, hasNext, endCursor, err := flattenThreads(out)
		if err != nil {
			return nil, err
		}
		all = append(all, threads...)
		if !hasNext || endCursor == "" {
			break
		}
		after = endCursor
	}
	return all, nil
}

// ListReviews fetches a PR's submitted reviews as raw objects for the
// harvest payload.
func ListReviews(ctx context.Context, ownerRepo string, prNumber int) ([]map[string]any, error) {
	return listRawObjects(ctx, fmt.Sprintf("repos/%s/pulls/%d/reviews", ownerRepo, prNumber))
}

// ListIssueCommentsRaw fetches a PR's conversation comments as raw
// objects for the harvest payload.
func ListIssueCommentsRaw(ctx context.Context, ownerRepo string, prNumber int) ([]map[string]any, error) {
	return listRawObjects(ctx, fmt.Sprintf("repos/%s/issues/%d/comments", ownerRepo, prNumber))
}

func listRawObjects(ctx context.Context, endpoint string) ([]map[string]any, error) {
	data, err := apiJSON(ctx, endpoint, "--paginate")
	if err != nil {
		return nil, err
	}
	var objs []map[string]any
	if err := json.Unmarshal(data, &objs); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}
	return objs, nil
}

// FilterLoopComments drops objects whose body carries the loop marker.
func FilterLoopComments(objs []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(objs))
	for _, o := range objs {
		body, _ := o["body"].(string)
		if hasLoopMarker(body) {
			continue
		}
		out = append(out, o)
	}
	return out
}
