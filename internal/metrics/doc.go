// Package metrics derives financial summaries from already-loaded accounts,
// income sources, and transactions: monthly and annual income equivalents,
// net worth, per-category spending, and budget alerts.
//
// Every function is a pure computation over its arguments. Thresholds are
// passed in explicitly through AlertRules and SpendingRules, so callers may
// evaluate concurrently without coordination.
package metrics
