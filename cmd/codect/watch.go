package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"codect/internal/crawler"
	"codect/internal/detector"
	"codect/internal/engine"
	"codect/internal/logger"
	"codect/internal/report"
	"codect/internal/watcher"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-classify source files as they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			eng, err := a.engine()
			if err != nil {
				return err
			}

			ignored := append(slices.Clone(crawler.DefaultIgnored), a.cfg.Scan.Exclude...)
			w, err := watcher.New(detector.New(), debounce, ignored)
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Stop()
			if err := w.Add(args...); err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			w.Start()
			logger.Info("Watching", "paths", args, "dirs", len(w.WatchedDirs()))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for {
				select {
				case <-ctx.Done():
					return nil
				case err := <-w.Errors():
					logger.Warn("watch error", "err", err)
				case ev := <-w.Events():
					analyzeEvent(ctx, cmd, eng, ev)
				}
			}
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Quiet period before a changed file is analysed")
	return cmd
}

func analyzeEvent(ctx context.Context, cmd *cobra.Command, eng *engine.Engine, ev watcher.Event) {
	code, err := os.ReadFile(ev.Path)
	if err != nil {
		logger.Warn("read failed", "file", ev.Path, "err", err)
		return
	}
	res, err := eng.Analyze(ctx, engine.Request{Code: string(code), Language: ev.Language, Filename: ev.Path})
	if err != nil {
		logger.Warn("analysis failed", "file", ev.Path, "code", engine.Code(err), "err", err)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %.3f\n", ev.Path, report.Verdict(res, eng.Policy()), res.Score)
}
