package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kindred/pkg/cards"
)

// cardsCommand lists the loaded templates and how many cards each yields.
func (c *CLI) cardsCommand() *cobra.Command {
	var (
		wf   worldFlags
		cf   cacheFlags
		deck int
	)

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List card templates and deck size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := wf.options(cmd)
			if err != nil {
				return err
			}
			w, err := c.buildWorld(cmd.Context(), cf, opts)
			if err != nil {
				return err
			}

			people := len(w.Population())
			fmt.Println(templateTable(w.Templates.All(), people))
			printKeyValue("Population", strconv.Itoa(people))
			printKeyValue("Deck", strconv.Itoa(len(w.Deck)))

			if deck > 0 {
				printNewline()
				for i, card := range w.Deck[:min(deck, len(w.Deck))] {
					fmt.Printf("%s %s\n", StyleDim.Render(fmt.Sprintf("%4d", i)), card.Text())
				}
			}
			return nil
		},
	}

	wf.register(cmd)
	cf.register(cmd)
	cmd.Flags().IntVar(&deck, "deck", 0, "also print the first N deck cards")

	return cmd
}

func templateTable(templates []*cards.Template, people int) string {
	rows := make([][]string, len(templates))
	for i, t := range templates {
		followups := strings.Join(t.Followups(), ", ")
		if followups == "" {
			followups = "—"
		}
		rows[i] = []string{
			t.Name,
			strings.Join(t.Roles, ", "),
			followups,
			strconv.Itoa(cards.Count(t, people)),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Template", "Roles", "Follow-ups", "Cards").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 0:
				return StyleHighlight
			case col == 3:
				return StyleValue
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
