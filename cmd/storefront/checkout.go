package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/your-org/gurukul-storefront/internal/app"
	"github.com/your-org/gurukul-storefront/internal/domain/checkout"
)

var delivery checkout.DeliveryDetails

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			receipt, err := a.Checkout.PlaceOrder(ctx, &delivery)
			if err != nil {
				return err
			}
			cmd.Printf("Order %s placed\n", receipt.Reference)
			cmd.Printf("%d item(s), subtotal %.2f, delivery %.2f, total %.2f\n",
				receipt.Quantity, receipt.Subtotal, receipt.DeliveryFee, receipt.Total)
			cmd.Printf("Delivering to %s\n", receipt.Address)
			return nil
		})
	},
}

func init() {
	f := checkoutCmd.Flags()
	f.StringVar(&delivery.Name, "name", "", "Recipient name")
	f.StringVar(&delivery.PhoneNo, "phone", "", "Contact phone")
	f.StringVar(&delivery.CompleteAddress, "address", "", "Street address")
	f.StringVar(&delivery.Landmark, "landmark", "", "Nearby landmark")
	f.StringVar(&delivery.City, "city", "", "City")
	f.StringVar(&delivery.State, "state", "", "State")
	f.StringVar(&delivery.Pincode, "pincode", "", "PIN code")
}
