package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theopenlane/shelfcheck/internal/rules"
)

// rulesCmd prints the rule catalog
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "print the compliance rule catalog as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		catalog, err := setupCatalog(cfg)
		if err != nil {
			return err
		}

		list := catalog.Rules()

		if raw := k.String("category"); raw != "" {
			category, ok := rules.ParseCategory(raw)
			if !ok {
				return fmt.Errorf("%w: %q", rules.ErrUnknownCategory, raw)
			}

			list = catalog.ForCategory(category)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")

		return enc.Encode(list)
	},
}

// init registers the rules command and its flags on the root command
func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.Flags().String("category", "", "only list rules applying to this product category")
}
