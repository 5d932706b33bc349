package igen

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Flag is one entry of a definition-list section such as REQUIRED-FLAGS.
type Flag struct {
	Flag        string `json:"flag" yaml:"flag"`
	Description string `json:"description" yaml:"description"`
}

// Flags maps a flag or argument name to its definition, preserving document order.
type Flags = orderedmap.OrderedMap[string, Flag]

// NewFlags returns an empty Flags map.
func NewFlags() *Flags {
	return orderedmap.New[string, Flag]()
}

// FlagNames returns the keys of f in document order.
func FlagNames(f *Flags) []string {
	if f == nil {
		return nil
	}
	names := make([]string, 0, f.Len())
	for pair := f.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Entry is the value stored for a sub-group or sub-command. Exactly one of
// Node or Ref is set: Node for a link expanded within the recursion budget,
// Ref for a link that was left unexpanded.
type Entry struct {
	Node *CommandNode
	Ref  string
}

// Expanded reports whether the entry holds a scraped node.
func (e Entry) Expanded() bool {
	return e.Node != nil
}

// MarshalJSON encodes an expanded entry as its node object and a reference
// as a plain string.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Node != nil {
		return json.Marshal(e.Node)
	}
	return json.Marshal(e.Ref)
}

// UnmarshalJSON decodes either form produced by MarshalJSON. A null value
// decodes to the zero Entry.
func (e *Entry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*e = Entry{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		e.Node = nil
		return json.Unmarshal(data, &e.Ref)
	}
	var node CommandNode
	if err := json.Unmarshal(data, &node); err != nil {
		return err
	}
	e.Node, e.Ref = &node, ""
	return nil
}

// CommandNode is the scraped structural representation of one command or
// command group.
type CommandNode struct {
	Name           string           `json:"name"`
	Path           string           `json:"path"`
	URL            string           `json:"url"`
	Description    string           `json:"description"`
	Synopsis       string           `json:"synopsis"`
	SubGroups      map[string]Entry `json:"subGroups"`
	SubCommands    map[string]Entry `json:"subCommands"`
	PositionalArgs *Flags           `json:"positionalArgs"`
	RequiredFlags  *Flags           `json:"requiredFlags"`
	Signature      string           `json:"signature"`
}

// NewCommandNode returns a node with all maps initialized.
func NewCommandNode(name, path, url string) *CommandNode {
	return &CommandNode{
		Name:           name,
		Path:           path,
		URL:            url,
		SubGroups:      make(map[string]Entry),
		SubCommands:    make(map[string]Entry),
		PositionalArgs: NewFlags(),
		RequiredFlags:  NewFlags(),
	}
}

// IsGroup reports whether the node has any sub-groups or sub-commands.
func (n *CommandNode) IsGroup() bool {
	return len(n.SubGroups) > 0 || len(n.SubCommands) > 0
}

// ComputeSignature returns the structural fingerprint of n.
func (n *CommandNode) ComputeSignature() string {
	return Signature(n.Name, slices.Collect(maps.Keys(n.SubGroups)), slices.Collect(maps.Keys(n.SubCommands)))
}

// Walk calls fn for n and every expanded descendant, depth first, visiting
// sub-groups before sub-commands and siblings in name order.
func (n *CommandNode) Walk(fn func(*CommandNode)) {
	fn(n)
	for _, children := range []map[string]Entry{n.SubGroups, n.SubCommands} {
		for _, name := range slices.Sorted(maps.Keys(children)) {
			if child := children[name]; child.Node != nil {
				child.Node.Walk(fn)
			}
		}
	}
}

// Signature fingerprints a command's structural shape: its name plus the
// sorted names of its sub-groups and sub-commands, hashed with SHA-256.
// Descriptions, synopsis and flags do not contribute.
//
// The hashed bytes are name, NUL, the group names joined by NUL, two NULs,
// then the command names joined by NUL. Names never contain NUL and are
// never empty, so distinct key sets cannot produce the same bytes even when
// a name contains dots.
func Signature(name string, groups, commands []string) string {
	g := slices.Clone(groups)
	slices.Sort(g)
	c := slices.Clone(commands)
	slices.Sort(c)

	raw := name + signatureSep + strings.Join(g, signatureSep) +
		signatureSep + signatureSep + strings.Join(c, signatureSep)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

const signatureSep = "\x00"
