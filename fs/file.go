// Package fs stores crawled command trees and action catalogs as JSON and
// YAML documents in a catalog directory.
//
// Layout below the catalog root:
//
//	<root>/<name>/<name>_command.json                 crawled command tree
//	<root>/global_flags.json, <root>/other_flags.json CLI-wide flags
//	<root>/<service>/<resource>/<category>/*.json     catalog leaf documents
//	<root>/<service>/actions.json                     legacy flat catalog
package fs

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/cespare/xxhash/v2"
)

// File names used in the catalog directory.
const (
	LeafFile = "action.json"
	FlatFile = "actions.json"

	// CommonDir holds shared data and is not a service.
	CommonDir = "common"
)

// CommandPath returns the path of the command document of a root.
func CommandPath(root, name string) string {
	return filepath.Join(root, name, name+"_command.json")
}

// FlagsPath returns the path of a CLI-wide flags document.
func FlagsPath(root string, kind igen.FlagKind) string {
	return filepath.Join(root, string(kind)+"_flags.json")
}

// checkName returns EINVALID if name cannot be used as a single path element.
func checkName(what, name string) error {
	if !igen.IsValidName(name) {
		return igen.Errorf(igen.EINVALID, "invalid %s name %q", what, name)
	}
	return nil
}

// isLeafDocument reports whether a file in a category directory holds actions.
func isLeafDocument(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// isHidden reports whether a directory entry should be ignored.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// encodeJSON renders v as indented JSON without HTML escaping.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// computeHash returns the xxhash of data.
func computeHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// writeFileAtomic replaces path with data by writing a temporary file in the
// same directory and renaming it into place. An existing file with the same
// content is left untouched and reported as not written.
func writeFileAtomic(path string, data []byte) (bool, error) {
	if existing, err := os.ReadFile(path); err == nil && computeHash(existing) == computeHash(data) {
		return false, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	return true, nil
}
