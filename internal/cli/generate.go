package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kindred/pkg/graph"
	"github.com/matzehuels/kindred/pkg/io"
	"github.com/matzehuels/kindred/pkg/setup"
)

// generateCommand builds a world and prints both families and their union.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		wf      worldFlags
		cf      cacheFlags
		output  string
		showAll bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate two families and print their ties",
		Long: `Generate solves both family graphs, binds generated characters to them and
prints the edge table of each family and of the combined family.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := wf.options(cmd)
			if err != nil {
				return err
			}
			w, err := c.buildWorld(cmd.Context(), cf, opts)
			if err != nil {
				return err
			}
			printWorld(w, showAll)

			if output != "" {
				if err := io.ExportJSON(w, output); err != nil {
					return err
				}
				printSuccess("Exported world")
				printFile(output)
			}
			printNewline()
			printNextStep("Play it", fmt.Sprintf("%s play --seed %d", appName, w.Seed))
			return nil
		},
	}

	wf.register(cmd)
	cf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the world as JSON to this file")
	cmd.Flags().BoolVar(&showAll, "all", false, "list absent edges too")

	return cmd
}

// buildWorld builds a world behind a spinner.
func (c *CLI) buildWorld(ctx context.Context, cf cacheFlags, opts setup.Options) (*setup.World, error) {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return nil, err
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Solving families...")
	spinner.Start()
	w, err := runner.Build(ctx, opts)
	if err != nil {
		spinner.StopWithError("Could not build world")
		return nil, err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Built world %s", w.ID.String()[:8]))
	return w, nil
}

func printWorld(w *setup.World, showAll bool) {
	view := graph.Options{PresentOnly: !showAll}
	for _, n := range []int{setup.FamilyOne, setup.FamilyTwo, setup.FamilyCombined} {
		g, _ := w.Family(n)
		f := graph.FromFamily(g, view)

		printNewline()
		fmt.Println(StyleTitle.Render(f.Name))
		printDetail("%s", familyStats(f))
		if f.Bounds != nil && f.Bounds.Forced {
			printWarning("density bounds admit no edge for two members; one tie is forced")
		}
		fmt.Println(edgeTable(f))
	}

	printNewline()
	printKeyValue("Compatibility", fmt.Sprint(w.Compatibility))
	printKeyValue("Cards", fmt.Sprint(len(w.Deck)))
	printKeyValue("Seed", fmt.Sprint(w.Seed))
}
