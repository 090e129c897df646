package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-enroll/internal/config"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the enrollment service",
	Long: `Check that the enrollment service is reachable. The service also starts
loading its models on this call, so running it before an enrollment avoids a
slow first upload.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	resp, err := client.Health(context.Background())
	if err != nil {
		return fmt.Errorf("enrollment service at %s is not healthy: %w", cfg.Service.URL, err)
	}

	fmt.Printf("Service: %s\n", cfg.Service.URL)
	fmt.Printf("Status:  %s\n", resp.Status)
	if resp.Backend != "" {
		fmt.Printf("Backend: %s\n", resp.Backend)
	}
	if resp.Message != "" {
		fmt.Printf("Message: %s\n", resp.Message)
	}
	return nil
}
