// Package score computes the four category scores (SEO, accessibility,
// mobile, performance) and composes them into the final audit report.
//
// Every scorer starts from 100 and subtracts fixed penalties per detected
// issue, floored at 0. All scorers are pure functions of the Document,
// the fetch metrics, and the link results: no shared mutable state, safe
// to run in any order or concurrently.
//
// The penalty and weight constants in this package are a stable external
// contract. Dashboards and competitive comparisons depend on score
// comparability across audits, so changing any constant is a breaking
// change even though no wire format is involved.
package score
