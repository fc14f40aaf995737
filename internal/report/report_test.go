package report

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"codect/internal/batch"
	"codect/internal/engine"
	"codect/internal/scoring"
)

func analyze(t *testing.T, code string, detailed bool) *engine.Result {
	t.Helper()
	eng, err := engine.New()
	require.NoError(t, err)
	res, err := eng.Analyze(context.Background(), engine.Request{Code: code, Language: "python", Detailed: detailed})
	require.NoError(t, err)
	return res
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "table": FormatTable, "JSON": FormatJSON, " msgpack ": FormatMsgpack} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriteResult_JSON(t *testing.T) {
	for _, detailed := range []bool{false, true} {
		res := analyze(t, "def add(x, y):\n    return x + y\n", detailed)

		var buf bytes.Buffer
		require.NoError(t, WriteResult(&buf, res, FormatJSON, scoring.DefaultPolicy()))

		var back map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
		assert.EqualValues(t, 0, back["result"])
		if detailed {
			assert.Contains(t, back, "features")
		} else {
			assert.NotContains(t, back, "features")
		}
	}
}

func TestWriteResult_PartialJSON(t *testing.T) {
	res := analyze(t, "def broken(:\n", true)
	require.True(t, res.Partial)

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, res, FormatJSON, scoring.DefaultPolicy()))
	assert.Contains(t, buf.String(), `"partial": true`)
}

func TestSchema_RejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"result out of range": `{"result":2,"classification":"x","language":"python","score":0.1,"partial":false}`,
		"score above one":     `{"result":1,"classification":"x","language":"python","score":1.5,"partial":false}`,
		"missing language":    `{"result":0,"classification":"x","score":0.1,"partial":false}`,
		"unknown field":       `{"result":0,"classification":"x","language":"python","score":0.1,"partial":false,"extra":1}`,
		"negative count":      `{"result":0,"classification":"x","language":"python","score":0.1,"partial":false,"features":{"token_entropy":0,"comment_ratio":0,"function_count":-1,"loop_count":0,"try_except_count":0,"max_ast_depth":0,"total_lines":0}}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, validate(resultSchema, []byte(doc)))
		})
	}
}

func TestWriteScan(t *testing.T) {
	items := []batch.Item{
		{Path: "a.py", Language: "python", Result: analyze(t, "x = 1\n", false)},
		{Path: "b.py", Language: "python", Err: engine.ErrResourceLimitExceeded, ErrCode: engine.CodeResourceLimitExceeded},
	}
	rep := NewScanReport(items)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteScan(&buf, rep, FormatJSON, scoring.DefaultPolicy()))

		var back ScanReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
		require.Len(t, back.Files, 2)
		assert.Equal(t, engine.CodeResourceLimitExceeded, back.Files[1].ErrCode)
		assert.Equal(t, 1, back.Summary.Failed)
	})

	t.Run("msgpack", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteScan(&buf, rep, FormatMsgpack, scoring.DefaultPolicy()))

		var back map[string]any
		require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &back))
		assert.Contains(t, back, "files")
		assert.Contains(t, back, "summary")
	})

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteScan(&buf, rep, FormatTable, scoring.DefaultPolicy()))
		out := buf.String()
		assert.Contains(t, out, "a.py")
		assert.Contains(t, out, "error: resource_limit_exceeded")
		assert.Contains(t, out, "2 files")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteScan(&buf, NewScanReport(nil), FormatJSON, scoring.DefaultPolicy()))
		assert.Contains(t, buf.String(), `"files": []`)
	})
}

func TestWriteResult_Table(t *testing.T) {
	res := analyze(t, "def add(x, y):\n    return x + y\n", true)

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, res, FormatTable, scoring.DefaultPolicy()))
	out := buf.String()
	assert.Contains(t, out, res.Classification)
	assert.Contains(t, out, "token_entropy")
	assert.Contains(t, out, "documentation")
}

func TestWriteResult_Msgpack(t *testing.T) {
	res := analyze(t, "x = 1\n", true)

	var buf bytes.Buffer
	require.NoError(t, WriteResult(&buf, res, FormatMsgpack, scoring.DefaultPolicy()))

	var back map[string]any
	require.NoError(t, msgpack.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "python", back["language"])
	feats, ok := back["features"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, feats, "total_lines")
}

func TestVerdict_FollowsPolicyBands(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	res := &engine.Result{Score: 0.35, Classification: "Likely Human"}

	assert.Equal(t, humanColor.Sprint(res.Classification), Verdict(res, scoring.DefaultPolicy()))

	p := scoring.DefaultPolicy()
	p.Bands = []scoring.Band{
		{Min: 0, Label: "Human"},
		{Min: 0.3, Label: "Close call"},
		{Min: 0.5, Label: "AI"},
	}
	p.Boundary = 0.5
	assert.Equal(t, uncertainColor.Sprint(res.Classification), Verdict(res, p))

	res.Result = 1
	assert.Equal(t, aiColor.Sprint(res.Classification), Verdict(res, p))
}
