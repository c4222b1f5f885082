package main

import (
	"fmt"
	"path"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/feichai0017/notebook-publisher/pkg/logger"
)

func newListCmd(a *app) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List uploaded objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.newStorage(cmd.Context(), a.cfg.Storage, a.log)
			if err != nil {
				return err
			}
			objects, err := store.List(cmd.Context(), prefix)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED\tURL")
			for _, obj := range objects {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", obj.Key, obj.Size, obj.LastModified.Format(time.RFC3339), obj.URL)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "only list keys starting with prefix")
	return cmd
}

func newPruneCmd(a *app) *cobra.Command {
	var (
		prefix    string
		olderThan time.Duration
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete uploaded objects older than a given age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if prefix == "" {
				return fmt.Errorf("--prefix is required")
			}
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}
			store, err := a.newStorage(cmd.Context(), a.cfg.Storage, a.log)
			if err != nil {
				return err
			}

			threshold := time.Now().Add(-olderThan)
			deleted, err := store.CleanupBefore(cmd.Context(), prefix, threshold)
			a.log.Info("Completed cleanup",
				logger.String("prefix", prefix),
				logger.Time("threshold", threshold),
				logger.Int("deleted", deleted),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d objects\n", deleted)
			if err != nil {
				return fmt.Errorf("some objects could not be deleted: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefix, "prefix", "p", "", "key prefix to prune (required)")
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "delete objects last modified before now minus this duration")
	return cmd
}

func newMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <src-key> <dst-key>",
		Short: "Rename a stored object (copy, then delete the source)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.newStorage(cmd.Context(), a.cfg.Storage, a.log)
			if err != nil {
				return err
			}
			if err := store.Move(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), store.URL(args[1]))
			return nil
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key> [local-path]",
		Short: "Download a stored object",
		Long:  "Get downloads the object under key. The local path defaults to the last segment of the key in the current directory.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			local := path.Base(args[0])
			if len(args) == 2 {
				local = args[1]
			}
			store, err := a.newStorage(cmd.Context(), a.cfg.Storage, a.log)
			if err != nil {
				return err
			}
			if err := store.Download(cmd.Context(), args[0], local); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", local)
			return nil
		},
	}
}
