package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dd0wney/promptflow/pkg/algorithms"
	"github.com/dd0wney/promptflow/pkg/config"
	"github.com/dd0wney/promptflow/pkg/graph"
	"github.com/dd0wney/promptflow/pkg/validation"
	"github.com/dd0wney/promptflow/pkg/visualization"
)

// connectCommand starts an edge line; the TUI uses the same syntax.
const connectCommand = "/connect"

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"json", "text"}

// NewLayoutCommand creates the layout command.
func NewLayoutCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Lay out a flow read from stdin",
		Long: `Read a flow from stdin and print its layout.

Each line is a prompt and becomes a node chained to the one before.
Lines of the form "/connect <source> <target>" add an edge instead.
Blank lines and lines starting with # are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.NewConfigValidator("flag").
				OneOf("format", format, ValidFormats...).
				Validate(); err != nil {
				return WrapExitError(ExitCommandError, "invalid flags", err)
			}

			cfg, err := rootOpts.load()
			if err != nil {
				return err
			}
			return runLayout(cmd.InOrStdin(), cmd.OutOrStdout(), cfg, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json|text)")
	return cmd
}

func runLayout(in io.Reader, out io.Writer, cfg config.Config, format string) error {
	layout := visualization.NewRankedLayout(cfg.Layout)
	store := graph.NewStore(layout, graph.WithDimensions(cfg.Node.Dimensions()))

	scanner := bufio.NewScanner(in)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if fields := strings.Fields(line); fields[0] == connectCommand {
			if len(fields) != 3 {
				return NewExitError(ExitCommandError, fmt.Sprintf("line %d: usage: %s <source> <target>", lineNo, connectCommand))
			}
			if _, err := store.AddUserEdge(fields[1], fields[2]); err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("line %d", lineNo), err)
			}
			continue
		}

		store.AddNode(line)
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitFailure, "read input", err)
	}

	viz := visualization.NewVisualization(layout, store.CurrentSnapshot())
	if format == "text" {
		_, err := fmt.Fprintf(out, "%s\n%s\n", renderTable(viz), summarize(viz.Snapshot.Graph()))
		return err
	}

	data, err := viz.ExportIndentedJSON()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func renderTable(viz *visualization.Visualization) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "RANK", "X", "Y", "PROMPT")

	for _, n := range viz.Snapshot.Nodes {
		pos := viz.Snapshot.Positions[n.ID]
		t.Row(
			n.ID,
			strconv.Itoa(viz.Ranks[n.ID]),
			strconv.FormatFloat(pos.X, 'f', -1, 64),
			strconv.FormatFloat(pos.Y, 'f', -1, 64),
			n.Payload.Prompt,
		)
	}
	return t.String()
}

// summarize reports the shape of g in one line.
func summarize(g graph.Graph) string {
	shape := "acyclic"
	if !algorithms.IsDAG(g) {
		shape = fmt.Sprintf("%d cycle(s)", len(algorithms.DetectCycles(g)))
	}
	if !g.Empty() && !algorithms.IsConnected(g) {
		shape += ", disconnected"
	}
	return fmt.Sprintf("%d nodes, %d edges, %s, roots: %s",
		len(g.Nodes), len(g.Edges), shape, strings.Join(algorithms.Roots(g), " "))
}
