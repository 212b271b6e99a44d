package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/your-org/gurukul-storefront/internal/app"
	"github.com/your-org/gurukul-storefront/internal/domain/course"
)

var inquiry course.InquiryRequest

// inquireCmd sends the baking course contact form
var inquireCmd = &cobra.Command{
	Use:   "inquire",
	Short: "Ask about the baking courses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			row, err := a.Courses.SubmitInquiry(ctx, &inquiry)
			if err != nil {
				return err
			}
			cmd.Printf("Inquiry sent at %s. We will call %s soon.\n", row.SubmittedAt, row.PhoneNo)
			return nil
		})
	},
}

func init() {
	f := inquireCmd.Flags()
	f.StringVar(&inquiry.Name, "name", "", "Your name")
	f.StringVar(&inquiry.PhoneNo, "phone", "", "Phone number")
	f.StringVar(&inquiry.Email, "email", "", "Email address")
	f.IntVar(&inquiry.Age, "age", 0, "Your age")
	f.StringVarP(&inquiry.Message, "message", "m", "", "What you would like to know")
}
