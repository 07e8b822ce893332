// Package guard is the lexical safety gate applied to SQL text before it
// reaches the store.
//
// The gate is a layered set of pattern checks, not a parser. It rejects the
// common shapes of injection and multi-statement abuse (denylisted keywords,
// stacked statements, comments, broken literal boundaries, tautologies) and
// is meant to sit alongside parameter binding, never to replace it.
//
// Known limitations:
//   - Keywords match as substrings, so identifiers such as "description"
//     (contains SCRIPT) or "executed_at" (contains EXEC) are rejected.
//   - The quoted-OR pattern can fire on ordinary literals that happen to
//     contain "or" followed by a later comparison against a literal.
//   - Comment markers are rejected even inside string literals.
package guard
