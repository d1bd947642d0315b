package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chemsearch/backend/internal/app"
	"github.com/chemsearch/backend/internal/domain"
	"github.com/spf13/cobra"
)

var (
	buildQuery    string
	buildSnapshot bool
)

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Build products from a JSON listing batch",
	Long: `Build reads a batch request (supplier plus raw listings) from a JSON file,
or from stdin when the file is "-", and prints the built products.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildQuery, "query", "q", "", "search query; overrides the one in the file")
	buildCmd.Flags().BoolVar(&buildSnapshot, "snapshot", false, "store the drafts as a snapshot instead of building")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	req, err := readBuildRequest(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	if buildQuery != "" {
		req.Query = buildQuery
	}

	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		if buildSnapshot {
			snap, err := a.Listings.Snapshot(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"id":        snap.ID,
				"drafts":    len(snap.Drafts),
				"createdAt": snap.CreatedAt,
			})
		}

		result, err := a.Listings.BuildListings(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	})
}

func readBuildRequest(stdin io.Reader, path string) (*domain.BuildRequest, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var req domain.BuildRequest
	if err := dec.Decode(&req); err != nil {
		return nil, fmt.Errorf("decode build request: %w", err)
	}
	return &req, nil
}
