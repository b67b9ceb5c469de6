package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/warp/latefee/config"
	"github.com/warp/latefee/store"
	"github.com/warp/latefee/store/sqlite"
)

func newConfigCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the stored fee configuration",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "latefee.db", "SQLite database path")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration (default when none stored)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(dbPath, func(s *sqlite.Store) error {
				return runConfigShow(cmd.Context(), cmd.OutOrStdout(), s)
			})
		},
	}

	var file string
	set := &cobra.Command{
		Use:   "set",
		Short: "Store a configuration from a YAML or JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(dbPath, func(s *sqlite.Store) error {
				return runConfigSet(cmd.Context(), cmd.OutOrStdout(), s, file)
			})
		},
	}
	set.Flags().StringVar(&file, "file", "", "Configuration file (required)")
	set.MarkFlagRequired("file")

	var limit int
	history := &cobra.Command{
		Use:   "history",
		Short: "List stored configuration versions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(dbPath, func(s *sqlite.Store) error {
				return runConfigHistory(cmd.Context(), cmd.OutOrStdout(), s, limit)
			})
		},
	}
	history.Flags().IntVar(&limit, "limit", 10, "Maximum versions to list (0 = all)")

	cmd.AddCommand(show, set, history)
	return cmd
}

func withStore(dbPath string, fn func(s *sqlite.Store) error) error {
	s, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()
	return fn(s)
}

func runConfigShow(ctx context.Context, out io.Writer, s store.Store) error {
	cfg, err := store.GetOrDefault(ctx, s)
	if err != nil {
		return err
	}
	return printConfig(out, cfg)
}

func runConfigSet(ctx context.Context, out io.Writer, s store.Store, path string) error {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	normalized, closed := cfg.Normalize()
	for _, day := range closed {
		fmt.Fprintf(out, "warning: %s has malformed opening hours, stored as closed\n", day)
	}
	if err := s.Set(ctx, normalized); err != nil {
		return err
	}
	return printConfig(out, normalized)
}

func runConfigHistory(ctx context.Context, out io.Writer, s store.VersionedStore, limit int) error {
	versions, err := s.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Fprintln(out, "no configuration stored")
		return nil
	}
	for _, v := range versions {
		fmt.Fprintf(out, "%s  %s  rate=%s %s\n",
			v.ID, v.CreatedAt.UTC().Format(time.RFC3339), v.Config.Rate.String(), v.Config.Currency)
	}
	return nil
}

func printConfig(out io.Writer, cfg config.Configuration) error {
	data, err := json.MarshalIndent(config.ToJSON(cfg), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
