// Package report renders analysis results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"codect/internal/batch"
	"codect/internal/engine"
	"codect/internal/scoring"
)

type Format string

const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatMsgpack:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json or msgpack)", s)
	}
}

// ScanReport is the document written for scan and diff runs.
type ScanReport struct {
	Files   []batch.Item  `json:"files"`
	Summary batch.Summary `json:"summary"`
}

func NewScanReport(items []batch.Item) ScanReport {
	if items == nil {
		items = []batch.Item{}
	}
	return ScanReport{Files: items, Summary: batch.Summarize(items)}
}

// WriteResult renders a single analysis. The policy only affects table colouring.
func WriteResult(w io.Writer, res *engine.Result, format Format, policy scoring.Policy) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, resultSchema, res)
	case FormatMsgpack:
		return writeMsgpack(w, res)
	default:
		return renderResult(w, res, policy)
	}
}

// WriteScan renders a multi-file report.
func WriteScan(w io.Writer, rep ScanReport, format Format, policy scoring.Policy) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, scanSchema, rep)
	case FormatMsgpack:
		return writeMsgpack(w, rep)
	default:
		return renderScan(w, rep, policy)
	}
}

func writeJSON(w io.Writer, schemaURL string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	if err := validate(schemaURL, data); err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeMsgpack(w io.Writer, v any) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("json")
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode msgpack: %w", err)
	}
	return nil
}
