package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"codect/internal/batch"
	"codect/internal/crawler"
	"codect/internal/detector"
	"codect/internal/logger"
	"codect/internal/report"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		jobs     int
		format   string
		detailed bool
		exclude  []string
	)
	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Classify every python and javascript file under a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("jobs") {
				jobs = a.cfg.Scan.Jobs
			}

			c := crawler.NewCrawler(detector.New(), slices.Concat(a.cfg.Scan.Exclude, exclude)...)
			files, err := c.Collect(cmd.Context(), root)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			logger.Info("Scanning", "root", root, "files", len(files), "jobs", jobs)

			eng, err := a.engine()
			if err != nil {
				return err
			}
			items, err := batch.NewRunner(eng, jobs, detailed).Run(cmd.Context(), files)
			if err != nil {
				return err
			}
			return report.WriteScan(cmd.OutOrStdout(), report.NewScanReport(items), f, eng.Policy())
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Parallel analyses (default from config, GOMAXPROCS)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or msgpack")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include features for every file")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Additional directory names to skip")
	return cmd
}
