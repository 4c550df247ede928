package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"risgen/internal/config"
	"risgen/internal/extract"
	"risgen/internal/power"
	"risgen/internal/providers"
	"risgen/internal/worker"
)

var (
	runConcurrency  int
	runSkipExisting bool
	runProvider     string
	runModel        string
	runVerbose      bool
)

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Generate RIS citation files for every PDF in a directory",
	Long: `Process every PDF in a directory (default: the current directory).

Each PDF gets a sibling .ris file with the same base name. Files whose
output already exists are skipped unless skip_existing is disabled.

Press Ctrl+C once to stop submitting new files while in-flight ones finish;
press it again to abort immediately.

Examples:
  risgen run ~/papers
  risgen run --concurrency 5 --provider openai --model gpt-4o ~/papers`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		level := slog.LevelWarn
		if runVerbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()
		if cmd.Flags().Changed("concurrency") {
			cfg.Defaults.Concurrency = runConcurrency
		}
		if cmd.Flags().Changed("skip-existing") {
			cfg.Defaults.SkipExisting = runSkipExisting
		}
		if runProvider != "" {
			cfg.Provider.Type = runProvider
		}
		if runModel != "" {
			cfg.Provider.Model = runModel
		}

		client, err := providers.NewClient(cfg.ToClientConfig())
		if err != nil {
			return err
		}

		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		items, err := collectPDFs(dir)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("no PDF files found in %s", dir)
		}

		extractor := extract.NewPDFExtractor(extract.Config{
			HeadPages: cfg.Defaults.HeadPages,
			TailPages: cfg.Defaults.TailPages,
			Logger:    logger,
		})
		proc, err := worker.NewProcessor(worker.ProcessorConfig{
			Extractor:    extractor,
			Client:       client,
			SkipExisting: cfg.Defaults.SkipExisting,
			Logger:       logger,
		})
		if err != nil {
			return err
		}
		pool, err := worker.NewPool(worker.PoolConfig{
			Processor:   proc,
			Concurrency: cfg.Defaults.Concurrency,
			Progress: func(current, total int, label string) {
				fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", current, total, label)
			},
			Logger: logger,
		})
		if err != nil {
			return err
		}

		release := power.Inhibit(ctx, logger)
		defer release()

		// First interrupt stops submission and drains; the second aborts.
		sigCh := make(chan os.Signal, 2)
		signal.Notify(sigCh, os.Interrupt)
		defer signal.Stop(sigCh)
		go func() {
			select {
			case <-sigCh:
			case <-ctx.Done():
				return
			}
			fmt.Fprintln(os.Stderr, "stopping: letting in-flight files finish (interrupt again to abort)")
			pool.Control().RequestCancel()
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()

		summary := pool.Run(ctx, items)
		renderSummary(cmd.OutOrStdout(), summary)
		return nil
	},
}

func init() {
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", 0, "concurrent workers (1-10, default from config)")
	runCmd.Flags().BoolVar(&runSkipExisting, "skip-existing", true, "skip PDFs whose .ris file already exists")
	runCmd.Flags().StringVar(&runProvider, "provider", "", "inference provider: gemini or openai (default from config)")
	runCmd.Flags().StringVar(&runModel, "model", "", "model name (default from config)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
}

// collectPDFs lists the PDFs in dir, sorted by name, as work items.
func collectPDFs(dir string) ([]worker.WorkItem, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	items := make([]worker.WorkItem, len(names))
	for i, name := range names {
		items[i] = worker.WorkItem{Path: filepath.Join(dir, name), Index: i}
	}
	return items, nil
}

// renderSummary prints the final counts, with failures grouped by code.
func renderSummary(w io.Writer, s worker.Summary) {
	fmt.Fprintf(w, "\nProcessed %d file(s)\n", s.Processed)
	fmt.Fprintf(w, "  Success:      %d\n", s.Success)
	fmt.Fprintf(w, "  Filename-only: %d\n", s.FilenameOnlySuccess)
	fmt.Fprintf(w, "  Skipped:      %d\n", s.Skipped)
	fmt.Fprintf(w, "  Failed:       %d\n", s.Failed)

	if len(s.FailedFiles) > 0 {
		byCode := make(map[string][]string)
		for _, f := range s.FailedFiles {
			byCode[string(f.Code)] = append(byCode[string(f.Code)], f.File)
		}
		codes := make([]string, 0, len(byCode))
		for code := range byCode {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		fmt.Fprintln(w, "\nFailures by code:")
		for _, code := range codes {
			fmt.Fprintf(w, "  %s (%d)\n", code, len(byCode[code]))
			for _, file := range byCode[code] {
				fmt.Fprintf(w, "    - %s\n", file)
			}
		}
	}

	if s.Cancelled {
		fmt.Fprintln(w, "\nRun cancelled before completion.")
	}
}
