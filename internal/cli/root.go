// internal/cli/root.go
package cli

import (
	"context"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/reviewcrawl/internal/app"
	"github.com/law-makers/reviewcrawl/internal/config"
)

// Version is set at build time
var Version = "0.1.0"

// shutdownTimeout bounds how long closing the browser and files may take
const shutdownTimeout = 15 * time.Second

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reviewcrawl",
	Short: "Collect tagged product reviews from a retail catalog",
	Long: `reviewcrawl walks a paginated product listing, opens every unique product,
follows each of its review tags and writes one row per review to CSV, XLSX
or JSON lines.

Products are deduplicated by their ASIN-normalized URL. With --state the
crawl is checkpointed after every product and can be resumed with --resume.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
// It returns the process exit code.
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		return 1
	}
	return 0
}

func init() {
	// Initialize the application lazily so -h/--help never loads config
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}

		a, err := app.New(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if cfg.ConfigFile != "" {
			log.Debug().Str("path", cfg.ConfigFile).Msg("Configuration file loaded")
		}

		SetApp(cmd, a)
		return nil
	}

	// PersistentPostRun does not run when RunE fails, so commands that
	// acquire resources also defer closeApp.
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		closeApp(cmd)
	}

	config.RegisterFlags(rootCmd)

	rootCmd.Flags().BoolP("help", "h", false, "Help for reviewcrawl")
	rootCmd.Flags().Bool("version", false, "Version for reviewcrawl")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(helpFunc)
	rootCmd.SetUsageFunc(usageFunc)
}

// closeApp releases the application stored on cmd, once
func closeApp(cmd *cobra.Command) {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		log.Warn().Err(err).Msg("Shutdown finished with errors")
	}
	SetApp(cmd, nil)
}

// stderrIsTerminal reports whether progress output can be drawn
func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
