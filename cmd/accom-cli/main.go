package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/yuqie6/AccomTrack/internal/bootstrap"
	"github.com/yuqie6/AccomTrack/internal/pkg/buildinfo"
	"github.com/yuqie6/AccomTrack/internal/pkg/config"
	"github.com/yuqie6/AccomTrack/internal/repository"
)

var (
	cfgFile string
	core    *bootstrap.Core
)

// annotation set on commands that must run without opening the store
const skipCore = "skip-core"

func main() {
	rootCmd := &cobra.Command{
		Use:           "accom",
		Short:         "AccomTrack - classroom accommodation tracking",
		Long:          `AccomTrack records which 504/IEP accommodations were provided to which student, in which class, on which day.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("load .env failed", "error", err)
			}
			if cmd.Annotations[skipCore] != "" {
				return nil
			}
			var err error
			core, err = bootstrap.NewCore(cfgFile)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if core != nil {
				_ = core.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(initConfigCmd())
	rootCmd.AddCommand(classCmd())
	rootCmd.AddCommand(studentCmd())
	rootCmd.AddCommand(accommodationCmd())
	rootCmd.AddCommand(enrollCmd())
	rootCmd.AddCommand(periodCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, repository.ErrSchemaTooNew) || errors.Is(err, repository.ErrMigration) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// migrateCmd opening the store already migrates it; this reports what was applied.
func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := core.DB.Report
			if len(r.Applied) == 0 {
				fmt.Printf("schema is current (v%d)\n", r.To)
				return nil
			}
			fmt.Printf("migrated v%d -> v%d, applied %v\n", r.From, r.To, r.Applied)
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store path, schema version and row counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			version, err := core.DB.CurrentVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("store:   %s\n", core.DB.Path)
			fmt.Printf("schema:  v%d (build supports v%d)\n", version, repository.CurrentSchemaVersion())

			history, err := core.DB.History(ctx)
			if err != nil {
				return err
			}
			for _, h := range history {
				fmt.Printf("  v%d %-32s %s\n", h.Version, h.Description, h.AppliedAt.Format("2006-01-02 15:04"))
			}

			tables, err := core.DB.Tables(ctx)
			if err != nil {
				return err
			}
			fmt.Println("tables:")
			for _, t := range tables {
				var n int64
				if err := core.DB.DB.WithContext(ctx).Table(t).Count(&n).Error; err != nil {
					return err
				}
				fmt.Printf("  %-28s %d\n", t, n)
			}
			return nil
		},
	}
}

func initConfigCmd() *cobra.Command {
	var out string
	var force bool
	cmd := &cobra.Command{
		Use:         "init-config",
		Short:       "Write a default config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipCore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := out
			if path == "" {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.WriteFile(path, config.Default()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination (default: config/config.yaml next to the binary)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// changed returns a pointer to value when the flag was set on the command line.
func changed(cmd *cobra.Command, flag, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}
