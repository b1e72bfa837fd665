// Package audit orchestrates a full page audit: URL normalization,
// safety validation, retrieval, document analysis, link integrity
// probing, scoring, and persistence. The Engine owns no global state;
// every collaborator is injected at construction time.
package audit
