package cmd

import (
	"fmt"

	"github.com/versync/versync/internal/domain"
	"github.com/versync/versync/internal/orchestrator"
	"github.com/spf13/cobra"
)

var (
	flagConfig        string
	flagDryRun        bool
	flagGithubRelease bool
)

var rootCmd = &cobra.Command{
	Use:   "versync [major|minor|patch|sync]",
	Short: "Keep manifest versions in sync and bump releases",
	Long: `versync keeps a primary and a secondary version manifest in lockstep,
derives the next semantic version from conventional commits (or from an
explicit bump kind), rewrites both manifests in place and records the
release with a commit and a tag.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"path to the config file (default: .versync.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false,
		"compute the next version without writing files or touching git")
	rootCmd.PersistentFlags().BoolVar(&flagGithubRelease, "github-release", false,
		"publish a GitHub release after tagging (requires a token)")
}

// runRelease validates the bump argument before any dependency is
// constructed, so a bad argument never reads config or touches files.
func runRelease(cmd *cobra.Command, args []string) error {
	var kind domain.BumpKind
	if len(args) == 1 {
		parsed, err := domain.ParseBumpKind(args[0])
		if err != nil {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return err
		}
		kind = parsed
	}
	c, err := newContainer(flagConfig)
	if err != nil {
		return err
	}
	orch := c.newReleaseOrchestrator()
	return orch.Execute(cmd.Context(), orchestrator.ReleaseConfig{
		Kind:           kind,
		DryRun:         flagDryRun,
		PublishRelease: flagGithubRelease,
	})
}

func Execute() error {
	return rootCmd.Execute()
}
