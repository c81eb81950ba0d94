package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/richhaase/pr-review-loop/internal/attach"
	"github.com/richhaase/pr-review-loop/internal/domain"
)

func newAttachCmd() *cobra.Command {
	var (
		sources  []string
		targets  []string
		noBackup bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Deep-merge JSON config fragments into target config files",
		Long: `Merge JSON fragments into JSON config files. Objects are deep-merged;
arrays and primitives are replaced; keys absent from the fragment are
preserved. Each --source pairs with the --target at the same position.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(sources) == 0 || len(sources) != len(targets) {
				return fmt.Errorf("--source and --target must be given in matching pairs")
			}

			var backups []string
			for i, src := range sources {
				bak, err := attach.Attach(src, targets[i], attach.Options{
					MakeBackup: !noBackup,
					DryRun:     dryRun,
				})
				if err != nil {
					fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
					return exitCode(domain.ExitFailure)
				}
				if bak != "" {
					backups = append(backups, bak)
				}
			}

			if dryRun {
				fmt.Println("DRY_RUN: no files written")
				return nil
			}
			for _, bak := range backups {
				fmt.Printf("backup: %s\n", bak)
			}
			for _, target := range targets {
				fmt.Printf("updated: %s\n", target)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sources, "source", nil, "JSON fragment to merge (repeatable)")
	cmd.Flags().StringArrayVar(&targets, "target", nil, "Config file to merge into (repeatable)")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Do not create .bak files")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not write files")
	return cmd
}
