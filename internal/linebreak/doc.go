// Package linebreak splits overflowing source lines at language-aware
// break points so they fit a column budget.
//
// A single forward scan walks one line fragment, tracking quote runs and
// bracket nesting, and collects every offset where an ordered rule table
// allows a break within budget. The rightmost eligible offset wins. The
// breaker then splits the styled line there, indents the continuation
// from the bracket context, and repeats on the remainder until every
// fragment fits:
//
//	draw(x1, y1, x2, y2)
//	              |budget
//	draw(x1, y1,
//	     x2, y2)
//
// Bracket state threads across fragments of one logical line, so a
// continuation that begins inside a bracket opened earlier still aligns
// and gates correctly. Languages without break punctuation use the
// space-delimited scan instead and may append a continuation marker,
// shell style.
package linebreak
