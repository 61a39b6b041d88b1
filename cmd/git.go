package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pbnj/internal/gitutil"
)

var commitMessage string

var gitCmd = &cobra.Command{
	Use:   "git",
	Short: "Version the documentation project with git",
}

var gitInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a git repository for the project",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := gitutil.New(outputDir)
		if err := repo.Init(); err != nil {
			return err
		}
		fmt.Println("✓ Repository initialized")
		return nil
	},
}

var gitCommitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Commit all project changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := gitutil.New(outputDir)
		if !repo.IsRepo() {
			return fmt.Errorf("not a git repository (run 'pbnj git init' first)")
		}

		committed, err := repo.CommitAll(commitMessage)
		if err != nil {
			return err
		}
		if !committed {
			fmt.Println("Nothing to commit")
			return nil
		}
		fmt.Printf("✓ Committed: %s\n", commitMessage)
		return nil
	},
}

var gitBranchCmd = &cobra.Command{
	Use:   "branch <name>",
	Short: "Create and switch to a new branch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := gitutil.New(outputDir)
		if err := repo.CreateBranch(args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Switched to branch %s\n", args[0])
		return nil
	},
}

var gitRemoteCmd = &cobra.Command{
	Use:   "remote <url>",
	Short: "Set the origin remote",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := gitutil.New(outputDir)
		if err := repo.AddRemote("origin", args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Remote origin set to %s\n", args[0])
		return nil
	},
}

var gitPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push the current branch to origin",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo := gitutil.New(outputDir)
		if !repo.HasRemote("origin") {
			return fmt.Errorf("no origin remote (run 'pbnj git remote <url>' first)")
		}
		if err := repo.Push("origin"); err != nil {
			return err
		}
		fmt.Println("✓ Pushed to origin")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(gitCmd)
	gitCmd.AddCommand(gitInitCmd, gitCommitCmd, gitBranchCmd, gitRemoteCmd, gitPushCmd)

	gitCommitCmd.Flags().StringVarP(&commitMessage, "message", "m", "Update documentation", "Commit message")
}
