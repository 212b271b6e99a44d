package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/your-org/gurukul-storefront/internal/app"
	"github.com/your-org/gurukul-storefront/internal/domain/cart"
	"github.com/your-org/gurukul-storefront/internal/domain/product"
)

var (
	itemName  string
	itemPrice float64
	itemImage string
)

// cartCmd groups cart commands
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and change the cart",
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cart items with totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return printCart(ctx, cmd, a)
		})
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <id> [quantity]",
	Short: "Add an item (quantity defaults to 1)",
	Long: `Adds an item to the cart. Without --name the item is looked up in the
catalog by product id.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity := cart.DefaultQuantity
		if len(args) == 2 {
			q, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity must be a whole number: %w", err)
			}
			quantity = q
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			in := cart.ItemInput{ID: args[0], Name: itemName, Price: itemPrice, Image: itemImage}
			if itemName == "" {
				found, err := lookupProduct(ctx, a, args[0])
				if err != nil {
					return err
				}
				in = found
			}
			if err := a.Cart.AddItem(ctx, in, quantity); err != nil {
				return err
			}
			return printCart(ctx, cmd, a)
		})
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <id> <quantity>",
	Short: "Set an item's quantity; 0 removes it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be a whole number: %w", err)
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Cart.UpdateQuantity(ctx, args[0], quantity); err != nil {
				return err
			}
			return printCart(ctx, cmd, a)
		})
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Cart.RemoveItem(ctx, args[0]); err != nil {
				return err
			}
			return printCart(ctx, cmd, a)
		})
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Cart.Clear(ctx); err != nil {
				return err
			}
			cmd.Println("Cart cleared")
			return nil
		})
	},
}

func init() {
	cartAddCmd.Flags().StringVar(&itemName, "name", "", "Display name")
	cartAddCmd.Flags().Float64Var(&itemPrice, "price", 0, "Unit price")
	cartAddCmd.Flags().StringVar(&itemImage, "image", "", "Image URL")

	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartUpdateCmd, cartRemoveCmd, cartClearCmd)
}

func printCart(ctx context.Context, cmd *cobra.Command, a *app.App) error {
	snap, err := a.Cart.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snap.Items) == 0 {
		cmd.Println("Your cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tQTY\tAMOUNT")
	for _, it := range snap.Items {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%.2f\n", it.ID, it.Name, it.Price, it.Quantity, it.Price*float64(it.Quantity))
	}
	fmt.Fprintf(w, "\t\t\t%d\t%.2f\n", snap.TotalQuantity, snap.Subtotal)
	return w.Flush()
}

func lookupProduct(ctx context.Context, a *app.App, id string) (cart.ItemInput, error) {
	products, err := a.Products.ListAll(ctx)
	if err != nil {
		return cart.ItemInput{}, err
	}
	for _, p := range products {
		if p.ID.String() == id {
			return product.ToCartItem(p), nil
		}
	}
	return cart.ItemInput{}, fmt.Errorf("product %q not found in the catalog", id)
}
