// Package gitctx collects unified diffs from a git repository so pending
// changes can be reviewed like any other code.
//
// [Collect] shells out to git for unstaged, staged or revision-range diffs,
// drops files matching exclude patterns and truncates the result to a byte
// budget.
package gitctx
