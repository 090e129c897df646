package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kozaktomas/face-enroll/internal/config"
	"github.com/kozaktomas/face-enroll/internal/enrollapi"
	"github.com/kozaktomas/face-enroll/internal/subject"
	"github.com/spf13/cobra"
)

var facesCmd = &cobra.Command{
	Use:   "faces",
	Short: "Manage enrolled faces",
}

var facesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrolled subjects and their captured orientations",
	Args:  cobra.NoArgs,
	RunE:  runFacesList,
}

var facesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete every capture of a subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runFacesDelete,
}

func init() {
	rootCmd.AddCommand(facesCmd)
	facesCmd.AddCommand(facesListCmd)
	facesCmd.AddCommand(facesDeleteCmd)

	facesListCmd.Flags().Bool("json", false, "Output as JSON")
	facesListCmd.Flags().String("filter", "", "Only subjects whose name contains this (case and accent insensitive)")
}

func runFacesList(cmd *cobra.Command, args []string) error {
	client, err := newClient(config.Load())
	if err != nil {
		return err
	}

	faces, err := client.ListFaces(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list faces: %w", err)
	}
	faces = subject.Filter(faces, mustGetString(cmd, "filter"))

	if mustGetBool(cmd, "json") {
		if faces == nil {
			faces = []enrollapi.Face{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(faces)
	}

	if len(faces) == 0 {
		fmt.Println("No faces enrolled")
		return nil
	}

	fmt.Printf("%-30s %-6s %s\n", "NAME", "COUNT", "ORIENTATIONS")
	for _, f := range faces {
		fmt.Printf("%-30s %-6d %s\n", f.Name, f.Count, strings.Join(f.Orientations, ", "))
	}
	fmt.Printf("\n%d subjects\n", len(faces))
	return nil
}

func runFacesDelete(cmd *cobra.Command, args []string) error {
	client, err := newClient(config.Load())
	if err != nil {
		return err
	}

	resp, err := client.DeleteFace(context.Background(), args[0])
	if err != nil {
		if enrollapi.IsNotFoundError(err) {
			return fmt.Errorf("no face enrolled as %q", args[0])
		}
		return fmt.Errorf("failed to delete face: %w", err)
	}

	fmt.Println(resp.Message)
	return nil
}
