// Package token defines the lexical tokens produced by the tokenizer.
// Invariants:
//   - A Stream always ends with exactly one EOF token.
//   - Newline tokens separate tokens that start on a later line; they carry no source text
//     beyond "\n" and are ignored by entropy computation.
//   - Line numbers are 1-based.
package token
