// Command docscan runs pattern and heading searches over local files.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/dgallion1/docscan/internal/cache"
	"github.com/dgallion1/docscan/internal/config"
	"github.com/dgallion1/docscan/internal/doctree"
	"github.com/dgallion1/docscan/internal/pipeline"
	"github.com/dgallion1/docscan/internal/search"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var version = "0.1.0"

// maxOpenFiles bounds concurrent file reads.
const maxOpenFiles = 16

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docscan",
		Short: "Search text and research documents in parallel",
		Long: `docscan searches batches of documents using a pool of workers.

  grep     case-insensitive regular expression search over .txt, .docx,
           .pdf, .md, .html and .csv files
  section  pull the paragraph that follows a heading out of PDF papers,
           optionally rendering the results as a PDF report`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Int("workers", runtime.NumCPU(), "number of worker goroutines")
	rootCmd.PersistentFlags().Bool("json", false, "print results as JSON")

	rootCmd.AddCommand(grepCmd())
	rootCmd.AddCommand(sectionCmd())
	return rootCmd
}

func grepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grep PATTERN FILE...",
		Short: "Print every line matching PATTERN",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return withService(cmd, func(ctx context.Context, svc *search.Service) error {
				files, err := readFiles(ctx, args[1:])
				if err != nil {
					return err
				}
				results, err := svc.SearchPattern(ctx, files, args[0])
				if err != nil {
					return err
				}
				return printMatches(cmd.OutOrStdout(), results, asJSON)
			})
		},
	}
}

func sectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "section HEADING FILE...",
		Short: "Print the paragraph under HEADING in each PDF",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			reportPath, _ := cmd.Flags().GetString("report")
			return withService(cmd, func(ctx context.Context, svc *search.Service) error {
				files, err := readFiles(ctx, args[1:])
				if err != nil {
					return err
				}
				sections, err := svc.ExtractHeadingSection(ctx, files, args[0])
				if err != nil {
					return err
				}
				if err := printSections(cmd.OutOrStdout(), sections, asJSON); err != nil {
					return err
				}
				if reportPath == "" {
					return nil
				}
				if err := writeReport(reportPath, args[0], files, sections); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", reportPath)
				return nil
			})
		},
	}
	cmd.Flags().String("report", "", "also write the results as a PDF report to this path")
	return cmd
}

// withService builds the pool and search service for one command run and
// tears them down afterwards. SIGINT cancels the search.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *search.Service) error) error {
	cfg := config.Load()
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.WorkerCount = workers
	}

	log := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := pipeline.NewPool(cfg.WorkerCount, cfg.MaxQueueSize, nil, log)
	defer pool.Close()
	svc := search.New(pool, cache.New(cfg.CacheTTL), search.OptionsFromConfig(cfg), log)
	return fn(ctx, svc)
}

// readFiles loads paths concurrently, keeping their order. The uploaded
// name of each file is its base name.
func readFiles(ctx context.Context, paths []string) ([]doctree.File, error) {
	files := make([]doctree.File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxOpenFiles)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			files[i] = doctree.File{Name: filepath.Base(path), Data: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
