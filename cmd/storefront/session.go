package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/your-org/gurukul-storefront/internal/app"
	"github.com/your-org/gurukul-storefront/internal/domain/auth"
	"github.com/your-org/gurukul-storefront/internal/domain/session"
)

var password string

var loginCmd = &cobra.Command{
	Use:   "login <phone-or-email>",
	Short: "Log in with a password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			identity, err := a.Auth.LoginWithPassword(ctx, &auth.PasswordLoginRequest{Identifier: args[0], Password: password})
			if err != nil {
				return err
			}
			printIdentity(cmd, identity)
			return nil
		})
	},
}

// otpCmd groups the one-time password login
var otpCmd = &cobra.Command{
	Use:   "otp",
	Short: "Log in with a one-time password",
}

var otpSendCmd = &cobra.Command{
	Use:   "send <phone>",
	Short: "Text a one-time password to the phone (safe to repeat)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Auth.SendOTP(ctx, &auth.SendOTPRequest{PhoneNumber: args[0]}); err != nil {
				return err
			}
			cmd.Println("OTP sent")
			return nil
		})
	},
}

var otpVerifyCmd = &cobra.Command{
	Use:   "verify <phone> <otp>",
	Short: "Log in with the one-time password",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			identity, err := a.Auth.VerifyOTP(ctx, &auth.VerifyOTPRequest{PhoneNumber: args[0], OTP: args[1]})
			if err != nil {
				return err
			}
			printIdentity(cmd, identity)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if err := a.Auth.Logout(ctx); err != nil {
				return err
			}
			cmd.Println("Logged out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			identity, ok := a.Sessions.Identity(ctx)
			if !ok {
				cmd.Println("Not logged in")
				return nil
			}
			printIdentity(cmd, identity)
			return nil
		})
	},
}

func init() {
	loginCmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = loginCmd.MarkFlagRequired("password")

	otpCmd.AddCommand(otpSendCmd, otpVerifyCmd)
}

func printIdentity(cmd *cobra.Command, identity *session.Identity) {
	cmd.Printf("Logged in as %s (user %s, role %s)\n", identity.Phone, identity.UserID, identity.Role)
	if identity.ExpiresAt != nil {
		cmd.Printf("Session expires at %s\n", identity.ExpiresAt.Format(time.Kitchen))
	}
	if identity.IsAdmin() {
		cmd.Println("Admin tools are available")
	}
}
