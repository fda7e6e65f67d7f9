package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kindred/pkg/graph"
	"github.com/matzehuels/kindred/pkg/session"
)

// sessionCommand manages saved play sessions.
func (c *CLI) sessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Manage saved play sessions",
	}

	cmd.AddCommand(c.sessionListCommand())
	cmd.AddCommand(c.sessionShowCommand())
	cmd.AddCommand(c.sessionRemoveCommand())

	return cmd
}

func (c *CLI) sessionListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSessionStore()
			if err != nil {
				return err
			}
			defer store.Close()

			list, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No saved sessions")
				printNextStep("Start one", appName+" play")
				return nil
			}
			fmt.Println(sessionTable(list))
			return nil
		},
	}
}

func (c *CLI) sessionShowCommand() *cobra.Command {
	var history bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved session and its current card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openSessionStore()
			if err != nil {
				return err
			}
			defer store.Close()

			sess, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			w, sel, err := c.resumeWorld(ctx, cacheFlags{}, sess)
			if err != nil {
				return err
			}

			printKeyValue("Session", sess.ID)
			printKeyValue("Families", w.Combined.Surname())
			printKeyValue("Seed", strconv.FormatUint(sess.Seed, 10))
			printKeyValue("Week", strconv.Itoa(sess.Week))
			printKeyValue("Cards left", strconv.Itoa(sel.Remaining()))
			printKeyValue("Updated", sess.UpdatedAt.Local().Format("Jan 2, 2006 15:04"))

			if history {
				printNewline()
				for i, ref := range sess.Shown {
					marker := " "
					if ref.Followup {
						marker = iconArrow
					}
					fmt.Printf("%s %s %s\n", StyleDim.Render(fmt.Sprintf("%3d", i+1)), StyleDim.Render(marker), ref.Text)
				}
			}

			if cur, ok := sel.Current(); ok {
				printNewline()
				choices := sel.Choices()
				fmt.Println(cardPanel(graph.FromCard(cur), sel.Week(), choices[len(choices)-1].HasFollowup()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "list every card shown so far")

	return cmd
}

func (c *CLI) sessionRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete saved sessions",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSessionStore()
			if err != nil {
				return err
			}
			defer store.Close()

			for _, id := range args {
				if err := store.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess("Deleted session %s", id)
			}
			return nil
		},
	}
}

func sessionTable(list []*session.Session) string {
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = []string{
			s.ID,
			strconv.FormatUint(s.Seed, 10),
			strconv.Itoa(s.Week),
			formatRelativeTime(s.UpdatedAt),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Session", "Seed", "Week", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 0:
				return StyleValue
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		Render()
}
