// Package igen builds and reloads a versioned knowledge base describing the
// gcloud command-line interface. It crawls the gcloud reference documentation
// into a tree of command nodes, persists that tree as JSON documents, and
// loads the resulting action catalog back from a directory tree at runtime.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, fs/).
package igen
