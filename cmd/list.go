package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"

	"github.com/zjrosen/rosterboard/internal/identity"
	"github.com/zjrosen/rosterboard/internal/roster"
	"github.com/zjrosen/rosterboard/internal/syncer"
	"github.com/zjrosen/rosterboard/internal/ui/cards"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the activities and their rosters",
	Long: `Load every activity from the Roster Service and print it without
starting the terminal UI. --html prints the rendered page markup instead.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("html", false, "print the rendered page markup")
	listCmd.Flags().Int("width", 72, "width of the plain listing")
}

func runList(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	asHTML, _ := cmd.Flags().GetBool("html")
	width, _ := cmd.Flags().GetInt("width")

	return writeList(cmd.OutOrStdout(), client, identity.NewFormatter(cfg.Cache.LabelTTL), asHTML, width)
}

// writeList loads the page once and writes it to w.
func writeList(w io.Writer, svc roster.Service, labels identity.Labeler, asHTML bool, width int) error {
	ctrl := syncer.New(syncer.Config{Service: svc, Labeler: labels})

	loaded, ok := ctrl.LoadAll()().(syncer.LoadedMsg)
	if !ok {
		return fmt.Errorf("loading activities: unexpected result")
	}
	ctrl.Update(loaded)
	if loaded.Err != nil {
		return fmt.Errorf("loading activities: %w", loaded.Err)
	}

	if asHTML {
		_, err := fmt.Fprintln(w, ctrl.Page().HTML())
		return err
	}

	if zone.DefaultManager == nil {
		zone.NewGlobal()
	}
	painted := zone.Scan(cards.Paint(ctrl.Page().List, cards.Options{Width: width, ShowDescriptions: true}))
	_, err := fmt.Fprintln(w, ansi.Strip(painted))
	return err
}
