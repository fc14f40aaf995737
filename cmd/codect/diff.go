package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"codect/internal/batch"
	"codect/internal/crawler"
	"codect/internal/detector"
	"codect/internal/git"
	"codect/internal/logger"
	"codect/internal/report"
)

func newDiffCmd(a *app) *cobra.Command {
	var (
		format string
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "diff [ref]",
		Short: "Classify source files changed since a git revision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := "HEAD"
			if len(args) > 0 {
				ref = args[0]
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			changed, err := git.ChangedFiles(cmd.Context(), dir, ref)
			if err != nil {
				return fmt.Errorf("diff against %s: %w", ref, err)
			}

			d := detector.New()
			var files []crawler.File
			lines := make(map[string]int)
			for _, c := range changed {
				lang := d.DetectPath(c.Path)
				if lang == "unknown" || len(c.ChangedLines) == 0 {
					continue
				}
				files = append(files, crawler.File{Path: c.Path, Language: lang})
				lines[c.Path] = len(c.ChangedLines)
			}
			logger.Info("Changed files", "ref", ref, "total", len(changed), "analysable", len(files))

			eng, err := a.engine()
			if err != nil {
				return err
			}
			items, err := batch.NewRunner(eng, a.cfg.Scan.Jobs, false).Run(cmd.Context(), files)
			if err != nil {
				return err
			}
			for i := range items {
				items[i].ChangedLines = lines[items[i].Path]
			}
			return report.WriteScan(cmd.OutOrStdout(), report.NewScanReport(items), f, eng.Policy())
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or msgpack")
	cmd.Flags().StringVarP(&dir, "dir", "C", ".", "Run git in this directory")
	return cmd
}
