package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/o-vuong/doggo-hotel/config"
)

var rootCmd = &cobra.Command{
	Use:   "doggo",
	Short: "Doggo Hotel booking backend",
	Long: `Doggo Hotel runs the kennel booking API, the payment retry scan and
the overstay sweep. Configuration is read from the environment and an
optional .env file.`,
	SilenceUsage: true,
}

// Execute chạy CLI, mặc định là serve khi không có lệnh con
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadApp đọc config rồi nối dây App cho các lệnh không cần HTTP
func loadApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(ctx, cfg, nil)
}
