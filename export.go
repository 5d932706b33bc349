package igen

import (
	"maps"
	"slices"
	"strings"
)

// Action categories assigned by CategoryFor.
const (
	CategoryQuery    = "query"
	CategoryCreate   = "create"
	CategoryModify   = "modify"
	CategoryDelete   = "delete"
	CategorySecurity = "security"
	CategoryTransfer = "transfer"
	CategoryControl  = "control"
	CategoryOther    = "other"
)

var verbCategories = map[string]string{
	"list": CategoryQuery, "describe": CategoryQuery, "get": CategoryQuery,
	"search": CategoryQuery, "show": CategoryQuery, "lookup": CategoryQuery,
	"query": CategoryQuery, "read": CategoryQuery, "ls": CategoryQuery,

	"create": CategoryCreate, "add": CategoryCreate, "insert": CategoryCreate,
	"deploy": CategoryCreate, "publish": CategoryCreate,

	"update": CategoryModify, "set": CategoryModify, "patch": CategoryModify,
	"edit": CategoryModify, "modify": CategoryModify, "rename": CategoryModify,

	"delete": CategoryDelete, "remove": CategoryDelete, "destroy": CategoryDelete,
	"purge": CategoryDelete, "rm": CategoryDelete,

	"copy": CategoryTransfer, "cp": CategoryTransfer, "mv": CategoryTransfer,
	"rsync": CategoryTransfer, "import": CategoryTransfer, "export": CategoryTransfer,
	"upload": CategoryTransfer, "download": CategoryTransfer, "pull": CategoryTransfer,

	"start": CategoryControl, "stop": CategoryControl, "restart": CategoryControl,
	"pause": CategoryControl, "resume": CategoryControl, "cancel": CategoryControl,
	"enable": CategoryControl, "disable": CategoryControl, "suspend": CategoryControl,
	"run": CategoryControl, "seek": CategoryControl, "ack": CategoryControl,
}

// CategoryFor classifies an action name by its leading verb.
func CategoryFor(action string) string {
	action = strings.ToLower(action)
	if strings.Contains(action, "iam") {
		return CategorySecurity
	}
	verb, rest, compound := strings.Cut(action, "-")
	if compound && rest != "" {
		switch verb {
		case "add", "remove", "set", "update":
			return CategoryModify
		}
	}
	if c, ok := verbCategories[verb]; ok {
		return c
	}
	return CategoryOther
}

// CatalogFromCommand converts a crawled root into a catalog. Every expanded
// command becomes an action named after the command, filed under the group
// path below the root (joined with ".", or the root name for commands directly
// under it) and the category of its verb. Unexpanded references are skipped.
func CatalogFromCommand(root *CommandNode, binary string) *Catalog {
	c := NewCatalog(root.Name)
	addCommands(c, root, binary, nil)
	return c
}

func addCommands(c *Catalog, node *CommandNode, binary string, groups []string) {
	resource := node.Name
	if len(groups) > 0 {
		resource = strings.Join(groups, ".")
	}
	for _, name := range slices.Sorted(maps.Keys(node.SubCommands)) {
		child := node.SubCommands[name]
		if child.Node == nil {
			continue
		}
		c.SetAction(resource, CategoryFor(name), name, CommandActionDef(binary, child.Node))
	}
	for _, name := range slices.Sorted(maps.Keys(node.SubGroups)) {
		child := node.SubGroups[name]
		if child.Node == nil {
			continue
		}
		addCommands(c, child.Node, binary, append(slices.Clone(groups), name))
	}
}

// CommandActionDef builds the action definition of a command node:
// positional arguments become bare placeholders and required flags become
// --flag={flag} pairs, in document order.
func CommandActionDef(binary string, node *CommandNode) ActionDef {
	parts := []string{binary, node.Path}
	params := []string{}
	seen := make(map[string]struct{})
	add := func(name string) bool {
		if name == "" || strings.ContainsAny(name, "{}") {
			return false
		}
		if _, ok := seen[name]; ok {
			return false
		}
		seen[name] = struct{}{}
		params = append(params, name)
		return true
	}

	for _, name := range FlagNames(node.PositionalArgs) {
		if add(name) {
			parts = append(parts, "{"+name+"}")
		}
	}
	for _, name := range FlagNames(node.RequiredFlags) {
		if add(name) {
			parts = append(parts, "--"+name+"={"+name+"}")
		}
	}

	return ActionDef{
		Cmd:    strings.TrimSpace(strings.Join(parts, " ")),
		Params: params,
	}
}
