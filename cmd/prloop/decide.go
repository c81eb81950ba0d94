package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/richhaase/pr-review-loop/internal/cache"
	"github.com/richhaase/pr-review-loop/internal/decision"
	"github.com/richhaase/pr-review-loop/internal/domain"
	"github.com/richhaase/pr-review-loop/internal/findings"
	"github.com/richhaase/pr-review-loop/internal/terminal"
)

// decideResult is the stdout handoff emitted on success.
type decideResult struct {
	DecisionLog string `json:"decisionLog"`
	Decided     int    `json:"decided"`
}

func newDecideCmd() *cobra.Command {
	var (
		pr       int
		round    int
		fixFile  string
		fixedIDs []string
		rejected []string
	)

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Interactively record fixed/rejected decisions for open findings",
		Long: `Load the findings from a fix file and walk them in an interactive
picker. Marked decisions are appended to the PR's decision log, which
the aggregate agent uses to filter already-decided findings out of
later rounds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pr <= 0 {
				return failJSON(domain.ErrorResult{Error: "PR_NUMBER_NOT_PROVIDED"})
			}
			if round < 1 {
				return failJSON(domain.ErrorResult{Error: "ROUND_INVALID", PRNumber: pr})
			}
			if fixFile == "" {
				return failJSON(domain.ErrorResult{Error: "MISSING_FIX_FILE"})
			}

			logger := terminal.NewLogger()
			paths := cache.Detect()

			md, err := paths.ReadText(fixFile)
			if err != nil {
				return failJSON(domain.ErrorResult{Error: "FIX_FILE_NOT_FOUND", Detail: err.Error()})
			}
			open := findings.Parse(md)
			if len(open) == 0 {
				logger.Log("No findings to decide", terminal.StyleInfo)
				emitJSON(decideResult{DecisionLog: "", Decided: 0})
				return nil
			}

			var decisions []domain.Decision
			if len(fixedIDs) > 0 || len(rejected) > 0 {
				decisions = flagDecisions(open, fixedIDs, rejected)
			} else {
				decisions, err = decision.RunPicker(open)
				if err != nil {
					return failJSON(domain.ErrorResult{Error: "DECIDE_FAILED", Detail: err.Error()})
				}
			}
			if len(decisions) == 0 {
				logger.Log("No decisions recorded", terminal.StyleDim)
				emitJSON(decideResult{DecisionLog: "", Decided: 0})
				return nil
			}

			ref, err := decision.AppendRound(paths, pr, round, decisions)
			if err != nil {
				return failJSON(domain.ErrorResult{Error: "DECIDE_FAILED", Detail: err.Error()})
			}

			logger.Logf(terminal.StyleSuccess, "Recorded %d decision(s) in %s", len(decisions), ref)
			emitJSON(decideResult{DecisionLog: ref, Decided: len(decisions)})
			return nil
		},
	}

	cmd.Flags().IntVar(&pr, "pr", 0, "PR number (required)")
	cmd.Flags().IntVar(&round, "round", 1, "Review round number")
	cmd.Flags().StringVar(&fixFile, "fix-file", "", "Cache reference of the fix file to decide on (required)")
	cmd.Flags().StringArrayVar(&fixedIDs, "fixed", nil, "Mark a finding id as fixed without the picker (repeatable)")
	cmd.Flags().StringArrayVar(&rejected, "rejected", nil, "Mark a finding id as rejected, optionally id=reason (repeatable)")
	return cmd
}

// flagDecisions builds decisions from --fixed/--rejected flags, keeping
// the finding order of the fix file. Unknown ids are ignored.
func flagDecisions(open []domain.Finding, fixedIDs, rejected []string) []domain.Decision {
	fixed := map[string]bool{}
	for _, id := range fixedIDs {
		fixed[strings.TrimSpace(id)] = true
	}
	reasons := map[string]string{}
	for _, r := range rejected {
		id, reason, _ := strings.Cut(r, "=")
		reasons[strings.TrimSpace(id)] = strings.TrimSpace(reason)
	}

	var decisions []domain.Decision
	for _, f := range open {
		switch {
		case fixed[f.ID]:
			decisions = append(decisions, domain.Decision{
				ID:     f.ID,
				Status: domain.StatusFixed,
				Fields: map[string]string{"essence": f.Title},
			})
		default:
			reason, ok := reasons[f.ID]
			if !ok {
				continue
			}
			decisions = append(decisions, domain.Decision{
				ID:     f.ID,
				Status: domain.StatusRejected,
				Fields: map[string]string{
					"priority": f.Priority,
					"reason":   reason,
					"essence":  f.Title,
				},
			})
		}
	}
	return decisions
}
