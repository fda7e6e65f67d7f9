package cli

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kindred/pkg/cards"
	"github.com/matzehuels/kindred/pkg/errors"
	"github.com/matzehuels/kindred/pkg/selector"
	"github.com/matzehuels/kindred/pkg/session"
	"github.com/matzehuels/kindred/pkg/setup"
)

// playCommand deals cards interactively, or a fixed number of them with --auto.
func (c *CLI) playCommand() *cobra.Command {
	var (
		wf        worldFlags
		cf        cacheFlags
		sessionID string
		auto      int
		noSave    bool
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Deal story cards week by week",
		Long: `Play builds a world and deals its cards one week at a time. Each card may
offer follow-ups that recast the same characters onto another template.

Progress is saved as a session on exit; resume it with --session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openSessionStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var (
				sess *session.Session
				sel  *selector.Selector
			)
			if sessionID != "" {
				sess, err = store.Get(ctx, sessionID)
				if err != nil {
					return err
				}
				if _, sel, err = c.resumeWorld(ctx, cf, sess); err != nil {
					return err
				}
				printInfo("Resumed session %s at week %d", sess.ID, sess.Week)
			} else {
				opts, err := wf.options(cmd)
				if err != nil {
					return err
				}
				w, err := c.buildWorld(ctx, cf, opts)
				if err != nil {
					return err
				}
				sel = w.NewSelector(selector.Options{Logger: c.Logger})
				sess = session.New(w)
			}

			if auto > 0 {
				err = autoPlay(ctx, sel, auto)
			} else {
				err = interactivePlay(ctx, sel)
			}
			if err != nil {
				return err
			}

			if noSave || sel.Week() == 0 {
				return nil
			}
			sess.Record(sel)
			if err := store.Set(ctx, sess); err != nil {
				return err
			}
			printNewline()
			printSuccess("Saved session %s (week %d)", sess.ID, sess.Week)
			printNextStep("Resume", fmt.Sprintf("%s play --session %s", appName, sess.ID))
			return nil
		},
	}

	wf.register(cmd)
	cf.register(cmd)
	cmd.Flags().StringVar(&sessionID, "session", "", "resume a saved session")
	cmd.Flags().IntVar(&auto, "auto", 0, "deal N cards without prompting, always continuing")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not save the session")

	return cmd
}

// autoPlay deals up to n cards, printing each through a selector listener.
func autoPlay(ctx context.Context, sel *selector.Selector, n int) error {
	sel.Subscribe(selector.ListenerFunc(func(card cards.Card, week int) {
		fmt.Printf("%s %s\n", StyleHighlight.Render(fmt.Sprintf("week %3d", week)), card.Text())
	}))
	for range n {
		choice := cards.NullChoice()
		if cur, ok := sel.Current(); ok {
			choice = cards.FollowupChoice(cur.Template.Followup)
		}
		if _, err := sel.Advance(ctx, choice); err != nil {
			if errors.Is(err, errors.ErrCodeSelectorExhausted) {
				printInfo("Every card has been dealt")
				return nil
			}
			return err
		}
	}
	return nil
}

func interactivePlay(ctx context.Context, sel *selector.Selector) error {
	if _, ok := sel.Current(); !ok {
		if _, err := sel.Advance(ctx, cards.NullChoice()); err != nil {
			return err
		}
	}
	_, err := tea.NewProgram(NewPlayModel(ctx, sel), tea.WithContext(ctx)).Run()
	return err
}

// openSessionStore opens the file store under the config directory.
func openSessionStore() (session.Store, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return session.NewFileStore(filepath.Join(dir, "sessions"))
}

// resumeWorld rebuilds a stored session's world for inspection.
func (c *CLI) resumeWorld(ctx context.Context, cf cacheFlags, sess *session.Session) (*setup.World, *selector.Selector, error) {
	runner, err := c.newRunner(ctx, cf)
	if err != nil {
		return nil, nil, err
	}
	defer runner.Cache.Close()
	return sess.Resume(ctx, runner, selector.Options{Logger: c.Logger})
}
