package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/firebird-suite/heron/internal/output"
	"github.com/simonhull/firebird-suite/heron/pkg/model"
)

// InspectCmd loads an artifact and prints its contents.
func InspectCmd() *cobra.Command {
	var showIDs bool

	cmd := &cobra.Command{
		Use:   "inspect <artifact>",
		Short: "Validate and print a model artifact",
		Long: `Loads a model artifact written by scan, checks that every connection
refers to a known element, and prints elements and connections.

Example:
  heron inspect heron.json
  heron inspect build/model.json --ids`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], showIDs)
		},
	}

	cmd.Flags().BoolVar(&showIDs, "ids", false, "Print element ids")

	return cmd
}

func runInspect(path string, showIDs bool) error {
	g, err := model.ReadFile(path)
	if err != nil {
		return err
	}

	elements, connections := g.Len()
	output.Info(fmt.Sprintf("%s: %d elements, %d connections", path, elements, connections))

	output.Header("Elements")
	rows := make([][]string, 0, elements)
	for _, e := range g.Elements() {
		row := []string{e.Kind.String(), e.Name}
		if showIDs {
			row = append(row, e.ID)
		}
		rows = append(rows, row)
	}
	output.Table(rows)

	output.Header("Connections")
	rows = make([][]string, 0, connections)
	for _, c := range g.Connections() {
		rows = append(rows, []string{c.Kind.String(), label(g, c.StartID, showIDs), "->", label(g, c.EndID, showIDs)})
	}
	output.Table(rows)
	return nil
}

func label(g *model.Graph, id string, showIDs bool) string {
	e, ok := g.Element(id)
	if !ok {
		return id
	}
	if showIDs {
		return e.Name + " [" + e.ID + "]"
	}
	return e.Name
}
