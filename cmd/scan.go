package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theopenlane/shelfcheck/internal/scanner"
	"github.com/theopenlane/shelfcheck/internal/store"
)

// scanCmd scans a single product page and prints the result
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "scan a product page and print the compliance result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var st *store.Store

		if !k.Bool("no-store") {
			st, err = setupStore(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("setting up storage: %w", err)
			}

			if st != nil {
				defer func() { _ = st.Close() }()
			}
		}

		s, _, err := setupScanner(cfg, st)
		if err != nil {
			return fmt.Errorf("setting up scanner: %w", err)
		}

		result, err := s.Scan(cmd.Context(), scanner.Request{URL: args[0]})
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(result)
	},
}

// init registers the scan command and its flags on the root command
func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("no-store", false, "do not persist the scan result")
}
