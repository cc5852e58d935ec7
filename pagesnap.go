// Package pagesnap periodically fetches a set of web pages, extracts their
// readable text as heading-scoped chunks, detects whether the content
// changed since the previous run, and persists the latest snapshot as a
// single JSON document for downstream consumers such as RAG pipelines.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, sqlite/).
package pagesnap
