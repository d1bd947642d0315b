package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/chemsearch/backend/internal/app"
	"github.com/chemsearch/backend/internal/domain"
	"github.com/spf13/cobra"
)

var listLimit int

var restoreCmd = &cobra.Command{
	Use:   "restore <snapshot-id>",
	Short: "Rebuild the products of a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			result, err := a.Listings.RestoreAndBuild(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if a.Snapshots == nil {
				return domain.ErrSnapshotsDisabled
			}
			snaps, err := a.Snapshots.List(ctx, listLimit)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tBASE URL\tCREATED")
			for _, s := range snaps {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, s.BaseURL, s.CreatedAt.Local().Format(time.DateTime))
			}
			return tw.Flush()
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <snapshot-id>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			if a.Snapshots == nil {
				return domain.ErrSnapshotsDisabled
			}
			if err := a.Snapshots.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		})
	},
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum number of snapshots to show")
	rootCmd.AddCommand(restoreCmd, listCmd, deleteCmd)
}
