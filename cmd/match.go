package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/kozaktomas/face-enroll/internal/config"
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <image>",
	Short: "Identify the face in an image",
	Long: `Send one image to the enrollment service and print which enrolled subject
it matches. Useful to check an enrollment right after it finished.`,
	Example: `  face-enroll match visitor.jpg
  face-enroll match visitor.jpg --json`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().Bool("json", false, "Output as JSON")
}

func runMatch(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read image: %w", err)
	}

	client, err := newClient(config.Load())
	if err != nil {
		return err
	}

	resp, err := client.Match(context.Background(), http.DetectContentType(data), data)
	if err != nil {
		return fmt.Errorf("failed to match face: %w", err)
	}

	if mustGetBool(cmd, "json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if !resp.IsMatch {
		fmt.Printf("No match (best score %.1f%%)\n", resp.SimilarityScore*100)
		return nil
	}
	fmt.Printf("Matched: %s (%.1f%%)\n", resp.MatchedName, resp.SimilarityScore*100)
	return nil
}
