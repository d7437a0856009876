package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/law-makers/reviewcrawl/internal/config"
	"github.com/law-makers/reviewcrawl/internal/crawler"
	"github.com/law-makers/reviewcrawl/internal/ui"
	urlutil "github.com/law-makers/reviewcrawl/internal/utils/url"
	"github.com/law-makers/reviewcrawl/pkg/models"
)

var runCmd = &cobra.Command{
	Use:   "run [listing-url]",
	Short: "Crawl a product listing and write its tagged reviews",
	Long: `Walk every page of a product listing, open each unique product, follow its
review tags and write one row per review.

Without a URL the configured start URL is crawled. Interrupting a run keeps
everything written so far; with --state set it can be continued with --resume.`,
	Example: `  # Crawl the default listing into amazon_product_data.csv
  reviewcrawl run

  # Crawl a search listing into a spreadsheet
  reviewcrawl run "https://www.amazon.in/s?k=headphones" -o reviews.xlsx

  # Checkpoint progress and continue after an interruption
  reviewcrawl run --state crawl.db
  reviewcrawl run --state crawl.db --resume

  # Try plain HTTP first and start Chrome only when needed
  reviewcrawl run --renderer auto --rps 0.5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCrawl,
}

func init() {
	config.RegisterRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func runCrawl(cmd *cobra.Command, args []string) error {
	defer closeApp(cmd)

	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	if len(args) == 1 {
		if err := urlutil.ValidateURL(args[0]); err != nil {
			return err
		}
		a.Config.StartURL = args[0]
	}

	ctx := cmd.Context()
	crawl, err := a.NewCrawl(ctx)
	if err != nil {
		return err
	}

	bar := newProgress(a.Config)
	crawl.OnOutcome = func(link crawler.ListingLink, out models.Outcome) {
		if bar == nil {
			return
		}
		bar.Describe(fmt.Sprintf("page %d", link.Page))
		_ = bar.Add(out.Rows)
	}

	a.Logger.Info().
		Str("url", crawl.StartURL).
		Str("output", a.Config.Output).
		Bool("resumed", crawl.Resumed).
		Msg("Starting crawl")

	stats, err := crawl.Run(ctx, crawl.StartURL)
	if bar != nil {
		_ = bar.Finish()
	}

	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		return err
	}

	if !a.Config.Quiet {
		printSummary(cmd.OutOrStdout(), a.Config.Output, stats)
	}
	if interrupted {
		hint := "rerun to start over"
		if a.Config.StatePath != "" {
			hint = "resume with --resume"
		}
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn("Crawl interrupted; "+hint))
	}
	return nil
}

// newProgress returns a spinner counting written rows, or nil when
// log output or a non-terminal would garble it
func newProgress(cfg *config.Config) *progressbar.ProgressBar {
	if cfg.Quiet || cfg.JSONLog || cfg.LogLevel == "debug" || !stderrIsTerminal() {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("page 1"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

func printSummary(w io.Writer, output string, s models.RunStats) {
	fmt.Fprintf(w, "\n%s\n", ui.Heading("Crawl summary"))
	row := func(label string, v any) {
		fmt.Fprintf(w, "  %-16s %s\n", ui.Dim(label), ui.Accent(fmt.Sprint(v)))
	}
	row("Listing pages", s.ListingPages)
	row("Links seen", s.LinksSeen)
	row("Duplicates", s.Duplicates)
	row("Products", s.Processed)
	row("Skipped", s.Skipped)
	row("Reviews written", s.RowsWritten)
	row("Elapsed", s.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "\n%s %s\n", ui.Success("Saved to"), output)
}
