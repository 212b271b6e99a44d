package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/your-org/gurukul-storefront/internal/app"
	"github.com/your-org/gurukul-storefront/internal/domain/product"
)

var productType string

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			var (
				products []product.Product
				err      error
			)
			if productType != "" {
				products, err = a.Products.List(ctx, productType)
			} else {
				products, err = a.Products.ListAll(ctx)
			}
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tNAME\tPRICE")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\n", p.ID, p.Type, p.Name, p.Price)
			}
			return w.Flush()
		})
	},
}

func init() {
	productsCmd.Flags().StringVarP(&productType, "type", "t", "", "Only list one product type")
}
