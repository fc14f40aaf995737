package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"codect/internal/engine"
	"codect/internal/report"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		language string
		detailed bool
		asJSON   bool
		format   string
	)
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Classify a single file or standard input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) > 0 {
				path = args[0]
			}
			code, err := readInput(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}

			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if asJSON {
				f = report.FormatJSON
			}

			eng, err := a.engine()
			if err != nil {
				return err
			}
			filename := ""
			if path != "-" {
				filename = path
			}
			res, err := eng.Analyze(cmd.Context(), engine.Request{
				Code:     string(code),
				Language: language,
				Filename: filename,
				Detailed: detailed,
			})
			if err != nil {
				return fmt.Errorf("analyze %s: %w", displayName(path), err)
			}
			return report.WriteResult(cmd.OutOrStdout(), res, f, eng.Policy())
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "Source language (detected from the file name or content when omitted)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Include features and the score breakdown")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Shorthand for --format json")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table, json or msgpack")
	return cmd
}

// readInput reads path, or stdin for "-". Reading an interactive terminal is refused.
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return data, nil
	}
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errors.New("no input: pass a file or pipe code on stdin")
	}
	return io.ReadAll(stdin)
}

func displayName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}
