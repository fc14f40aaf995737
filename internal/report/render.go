package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"codect/internal/engine"
	"codect/internal/scoring"
)

var (
	aiColor        = color.New(color.FgRed, color.Bold)
	uncertainColor = color.New(color.FgYellow)
	humanColor     = color.New(color.FgGreen)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
)

// Verdict colours a classification by which side of the policy's boundary it falls on.
// Scores in the band just below the boundary are shown as uncertain.
func Verdict(res *engine.Result, policy scoring.Policy) string {
	switch {
	case res.Result == 1:
		return aiColor.Sprint(res.Classification)
	case res.Score >= policy.UncertainFrom():
		return uncertainColor.Sprint(res.Classification)
	default:
		return humanColor.Sprint(res.Classification)
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderResult(w io.Writer, res *engine.Result, policy scoring.Policy) error {
	if _, err := fmt.Fprintf(w, "%s  score %.3f  result %d  (%s)\n", Verdict(res, policy), res.Score, res.Result, res.Language); err != nil {
		return err
	}
	if res.Partial {
		if _, err := fmt.Fprintf(w, "warning: %s\n", res.Warning); err != nil {
			return err
		}
	}
	if res.Features == nil {
		return nil
	}

	feats := newTable("feature", "value")
	m := res.Features.Map()
	for _, k := range res.Features.Keys() {
		feats.Row(k, formatValue(m[k]))
	}
	if _, err := fmt.Fprintln(w, feats.String()); err != nil {
		return err
	}

	if len(res.Contributions) == 0 {
		return nil
	}
	contrib := newTable("signal", "feature", "strength", "weighted")
	for _, c := range res.Contributions {
		contrib.Row(c.Signal, c.Feature, strconv.FormatFloat(c.Strength, 'f', 3, 64), strconv.FormatFloat(c.Weighted, 'f', 3, 64))
	}
	_, err := fmt.Fprintln(w, contrib.String())
	return err
}

func renderScan(w io.Writer, rep ScanReport, policy scoring.Policy) error {
	t := newTable("file", "language", "score", "verdict")
	for _, it := range rep.Files {
		if it.Result == nil {
			t.Row(it.Path, it.Language, "-", dimStyle.Render("error: "+it.ErrCode))
			continue
		}
		verdict := Verdict(it.Result, policy)
		if it.Result.Partial {
			verdict += " (partial)"
		}
		t.Row(it.Path, it.Language, strconv.FormatFloat(it.Result.Score, 'f', 3, 64), verdict)
	}
	if _, err := fmt.Fprintln(w, t.String()); err != nil {
		return err
	}

	s := rep.Summary
	_, err := fmt.Fprintf(w, "%d files, %d likely AI, %d partial, %d failed, mean score %.3f\n",
		s.Files, s.AI, s.Partial, s.Failed, s.MeanScore)
	return err
}

func formatValue(v any) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case float64:
		return strconv.FormatFloat(n, 'f', 4, 64)
	default:
		return fmt.Sprint(v)
	}
}
