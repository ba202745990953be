package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dd0wney/promptflow/pkg/session"
	"github.com/dd0wney/promptflow/pkg/tui"
	"github.com/dd0wney/promptflow/pkg/visualization"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Build a flow interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}

			// Logging stays off; it would draw over the screen.
			manager := session.NewManager(session.Options{
				Layout:     visualization.NewRankedLayout(cfg.Layout),
				Dimensions: cfg.Node.Dimensions(),
			})
			defer manager.Close()

			sess, err := manager.Create()
			if err != nil {
				return err
			}

			p := tea.NewProgram(tui.New(sess),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			_, err = p.Run()
			return err
		},
	}
}
