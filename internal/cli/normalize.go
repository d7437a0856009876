package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	urlutil "github.com/law-makers/reviewcrawl/internal/utils/url"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <url>...",
	Short: "Print the dedup key and ASIN of product URLs",
	Long: `Print the normalized form of each product URL, the key under which the
crawler deduplicates products, followed by its ASIN when one is present.`,
	Example: `  reviewcrawl normalize "https://www.amazon.in/Some-Product/dp/B0ABC12345?asin=B0ABC12345&ref=sr_1_1"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printNormalized(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func printNormalized(w io.Writer, urls []string) error {
	for _, raw := range urls {
		if err := urlutil.ValidateURL(raw); err != nil {
			return err
		}
		asin, ok := urlutil.ExtractASIN(raw)
		if !ok {
			asin = "-"
		}
		fmt.Fprintf(w, "%s\t%s\n", urlutil.NormalizeProductURL(raw), asin)
	}
	return nil
}
