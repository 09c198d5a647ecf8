package main

import (
	"github.com/spf13/cobra"
)

var priceSheetCmd = &cobra.Command{
	Use:   "price-sheet",
	Short: "Print the categories and unit prices in effect",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), 0)
		if err != nil {
			return err
		}
		defer a.close()
		renderPriceSheet(cmd.OutOrStdout(), a.processor.Table())
		return nil
	},
}
