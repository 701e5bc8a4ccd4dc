package cli

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mistakeknot/milgrim/internal/config"
	"github.com/mistakeknot/milgrim/internal/gitdiff"
	"github.com/mistakeknot/milgrim/internal/tui"
	"github.com/mistakeknot/milgrim/internal/workspace"
)

func Execute() error {
	root := newRootCommand()
	return root.Execute()
}

func newRootCommand() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:   "milgrim",
		Short: "Interactive diff editor for agent workspaces",
		Long: `Milgrim shows the uncommitted changes of every agent worktree and
lets you edit the diff itself: delete added lines, restore removed
ones, revert whole hunks, undo and redo, all applied straight to the
working tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// Suppress logging in TUI mode
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelError,
			}))
			slog.SetDefault(logger)

			m := tui.NewModel(cfg, gitdiff.ExecRunner{}, gitdiff.GitApplier{})
			p := tea.NewProgram(m, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(newDiffCommand())
	root.AddCommand(newWorkspacesCommand(&configPath))
	return root
}

func newDiffCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [path]",
		Short: "Print the uncommitted change summary for a worktree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			d, err := gitdiff.ComputeDigest(gitdiff.ExecRunner{}, dir)
			if err != nil {
				return err
			}
			if d.Hash == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Working tree clean")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.Summary.String())
			return nil
		},
	}
}

func newWorkspacesCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "workspaces",
		Short: "List discovered agent workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			scanner := workspace.NewScanner(cfg.Discovery, gitdiff.ExecRunner{})
			workspaces, err := scanner.Scan()
			if err != nil {
				return err
			}
			if len(workspaces) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workspaces found")
				return nil
			}
			for _, ws := range workspaces {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s %s\n", ws.ID, ws.DisplayName(), ws.Path)
			}
			return nil
		},
	}
}
