package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kozaktomas/face-enroll/internal/log"
	"github.com/spf13/cobra"
)

var (
	captureDir string
	logLevel   string
	logJSON    bool
)

var rootCmd = &cobra.Command{
	Use:   "face-enroll",
	Short: "Guided hands-free face enrollment",
	Long: `Face Enroll walks a subject through capturing their face from five
orientations (front, left, right, top, bottom). Each pose is announced,
counted down and captured automatically, and every capture is uploaded to
the enrollment service as soon as it is taken.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&captureDir, "capture", "", "Directory to save API responses for testing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to LOG_LEVEL")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Write logs as JSON instead of console output")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()

	log.Configure(log.Config{Level: logLevel, Pretty: !logJSON})
}
