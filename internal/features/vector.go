// Package features derives the numeric feature vector the scorer consumes.
package features

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/vmihailenco/msgpack/v5"
)

// Fixed feature keys, in presentation order.
const (
	KeyTokenEntropy   = "token_entropy"
	KeyCommentRatio   = "comment_ratio"
	KeyFunctionCount  = "function_count"
	KeyLoopCount      = "loop_count"
	KeyTryExceptCount = "try_except_count"
	KeyMaxASTDepth    = "max_ast_depth"
	KeyTotalLines     = "total_lines"
)

// FixedKeys lists the keys every vector carries.
var FixedKeys = []string{
	KeyTokenEntropy, KeyCommentRatio, KeyFunctionCount, KeyLoopCount,
	KeyTryExceptCount, KeyMaxASTDepth, KeyTotalLines,
}

// Vector is the fixed feature record plus an open set of extra features.
// It marshals to a single flat JSON object.
type Vector struct {
	TokenEntropy   float64
	CommentRatio   float64
	FunctionCount  int
	LoopCount      int
	TryExceptCount int
	MaxASTDepth    int
	TotalLines     int
	Extra          map[string]float64
}

func isFixed(key string) bool {
	for _, k := range FixedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of any feature, fixed or extra.
func (v *Vector) Get(key string) (float64, bool) {
	switch key {
	case KeyTokenEntropy:
		return v.TokenEntropy, true
	case KeyCommentRatio:
		return v.CommentRatio, true
	case KeyFunctionCount:
		return float64(v.FunctionCount), true
	case KeyLoopCount:
		return float64(v.LoopCount), true
	case KeyTryExceptCount:
		return float64(v.TryExceptCount), true
	case KeyMaxASTDepth:
		return float64(v.MaxASTDepth), true
	case KeyTotalLines:
		return float64(v.TotalLines), true
	}
	val, ok := v.Extra[key]
	return val, ok
}

// Value is Get with a zero default.
func (v *Vector) Value(key string) float64 {
	val, _ := v.Get(key)
	return val
}

// Set stores an extra feature. Fixed keys are rejected; non-finite values become 0.
func (v *Vector) Set(key string, val float64) error {
	if isFixed(key) {
		return fmt.Errorf("feature %q is fixed and cannot be set as an extra", key)
	}
	v.put(key, val)
	return nil
}

func (v *Vector) put(key string, val float64) {
	if v.Extra == nil {
		v.Extra = make(map[string]float64)
	}
	v.Extra[key] = finite(val)
}

// ExtraKeys returns the extra feature names in sorted order.
func (v *Vector) ExtraKeys() []string {
	keys := make([]string, 0, len(v.Extra))
	for k := range v.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map flattens the vector into one object keyed by feature name.
func (v Vector) Map() map[string]any {
	out := make(map[string]any, len(FixedKeys)+len(v.Extra))
	for k, val := range v.Extra {
		out[k] = finite(val)
	}
	out[KeyTokenEntropy] = finite(v.TokenEntropy)
	out[KeyCommentRatio] = finite(v.CommentRatio)
	out[KeyFunctionCount] = v.FunctionCount
	out[KeyLoopCount] = v.LoopCount
	out[KeyTryExceptCount] = v.TryExceptCount
	out[KeyMaxASTDepth] = v.MaxASTDepth
	out[KeyTotalLines] = v.TotalLines
	return out
}

// Keys returns every feature name: fixed keys in presentation order, then sorted extras.
func (v Vector) Keys() []string {
	keys := make([]string, 0, len(FixedKeys)+len(v.Extra))
	keys = append(keys, FixedKeys...)
	for _, k := range v.ExtraKeys() {
		if !isFixed(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// MarshalJSON writes one flat object in Keys order.
func (v Vector) MarshalJSON() ([]byte, error) {
	m := v.Map()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range v.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.fromMap(raw)
	return nil
}

// EncodeMsgpack writes the same flat object as MarshalJSON, in the same key order.
func (v Vector) EncodeMsgpack(enc *msgpack.Encoder) error {
	m := v.Map()
	keys := v.Keys()
	if err := enc.EncodeMapLen(len(keys)); err != nil {
		return err
	}
	for _, k := range keys {
		if err := enc.EncodeString(k); err != nil {
			return err
		}
		if err := enc.Encode(m[k]); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vector) DecodeMsgpack(dec *msgpack.Decoder) error {
	var raw map[string]float64
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	v.fromMap(raw)
	return nil
}

func (v *Vector) fromMap(raw map[string]float64) {
	*v = Vector{
		TokenEntropy:   raw[KeyTokenEntropy],
		CommentRatio:   raw[KeyCommentRatio],
		FunctionCount:  int(raw[KeyFunctionCount]),
		LoopCount:      int(raw[KeyLoopCount]),
		TryExceptCount: int(raw[KeyTryExceptCount]),
		MaxASTDepth:    int(raw[KeyMaxASTDepth]),
		TotalLines:     int(raw[KeyTotalLines]),
	}
	for k, val := range raw {
		if !isFixed(k) {
			if v.Extra == nil {
				v.Extra = make(map[string]float64)
			}
			v.Extra[k] = val
		}
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
