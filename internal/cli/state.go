package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/law-makers/reviewcrawl/internal/app"
	"github.com/law-makers/reviewcrawl/internal/config"
	"github.com/law-makers/reviewcrawl/internal/state"
	"github.com/law-makers/reviewcrawl/internal/ui"
	urlutil "github.com/law-makers/reviewcrawl/internal/utils/url"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or clear crawl checkpoints",
	Long: `Inspect or clear the checkpoint database used by --state and --resume.
Without --state the default database (` + config.DefaultStatePath + `) is used.`,
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List checkpointed crawls",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		defer closeApp(cmd)

		store, err := openState(cmd)
		if err != nil {
			return err
		}
		sums, err := store.Summaries(cmd.Context())
		if err != nil {
			return err
		}
		printSummaries(cmd.OutOrStdout(), store.Path(), sums)
		return nil
	},
}

var stateResetCmd = &cobra.Command{
	Use:   "reset [listing-url]",
	Short: "Forget the progress of one crawl",
	Example: `  # Clear the default listing
  reviewcrawl state reset

  # Clear a specific listing in a custom database
  reviewcrawl state reset "https://www.amazon.in/s?k=headphones" --state crawl.db`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defer closeApp(cmd)

		store, err := openState(cmd)
		if err != nil {
			return err
		}
		startURL := GetAppFromCmd(cmd).Config.StartURL
		if len(args) == 1 {
			if err := urlutil.ValidateURL(args[0]); err != nil {
				return err
			}
			startURL = args[0]
		}
		if err := store.Run(startURL).Reset(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Success("Cleared"), startURL)
		return nil
	},
}

func init() {
	stateCmd.AddCommand(stateShowCmd, stateResetCmd)
	rootCmd.AddCommand(stateCmd)
}

// openState opens the configured checkpoint database, falling back to the default path
func openState(cmd *cobra.Command) (*state.Store, error) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return stateStore(a)
}

func stateStore(a *app.Application) (*state.Store, error) {
	if a.Config.StatePath == "" {
		a.Config.StatePath = config.DefaultStatePath
	}
	return a.Store()
}

func printSummaries(w io.Writer, path string, sums []state.Summary) {
	if len(sums) == 0 {
		fmt.Fprintf(w, "%s %s\n", ui.Dim("No checkpoints in"), path)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LISTING\tVISITED\tPAGE\tUPDATED")
	for _, s := range sums {
		page, updated := "-", "-"
		if s.Cursor.Page > 0 {
			page = fmt.Sprint(s.Cursor.Page)
		}
		if !s.Cursor.UpdatedAt.IsZero() {
			updated = s.Cursor.UpdatedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", s.StartURL, s.Visited, page, updated)
	}
	_ = tw.Flush()
}
