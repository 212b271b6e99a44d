// cmd/storefront/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/your-org/gurukul-storefront/internal/app"
	"github.com/your-org/gurukul-storefront/internal/config"
	"github.com/your-org/gurukul-storefront/internal/pkg/logger"
)

var (
	namespace string
	logLevel  string
	timeout   time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Gurukul Bakery storefront companion",
	Long: `Runs the storefront's cart and session core.

"storefront serve" hosts the local API the storefront UI talks to. The other
commands drive the same cart and session from a terminal.`,
	SilenceUsage: true,
}

// serveCmd runs the local UI API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local storefront API",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&namespace, "namespace", "n", "", "Storage namespace (profile); overrides STORAGE_NAMESPACE")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level; overrides LOG_LEVEL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for terminal commands")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cartCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(otpCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(inquireCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openApp loads configuration and wires the storefront
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if namespace != "" {
		cfg.Storage.Namespace = namespace
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lg, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	return app.New(ctx, cfg, lg)
}

// withApp runs fn against a freshly opened storefront and closes it afterwards
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.Config
	log.Printf("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)
	log.Printf("🗄️  Storage: %s (namespace %s), cart mode: %s", cfg.Storage.Driver, cfg.Storage.Namespace, cfg.Cart.Mode)

	if err := a.WatchStorage(ctx); err != nil {
		log.Printf("Warning: storage watcher disabled: %v", err)
	}

	server := a.HTTPServer()
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("👋 Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Println("✅ Server shutdown completed")
	return nil
}
