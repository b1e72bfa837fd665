// Package analyzer parses fetched markup into the structural Document
// model consumed by the category scorers and the link checker.
//
// Design decision: We parse with goquery (on top of golang.org/x/net/html)
// rather than walking the node tree by hand because:
//  1. The permissive parser handles the malformed HTML common on the web
//  2. Selector-based extraction keeps each rule short and reviewable
//  3. Label/input association and landmark detection are natural as queries
//
// There is no parse failure: malformed markup is parsed best-effort and an
// empty Document is a valid, if sparse, result.
package analyzer
