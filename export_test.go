package igen_test

import (
	"testing"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFor(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"list":                    igen.CategoryQuery,
		"describe":                igen.CategoryQuery,
		"get-credentials":         igen.CategoryQuery,
		"create":                  igen.CategoryCreate,
		"add":                     igen.CategoryCreate,
		"update":                  igen.CategoryModify,
		"add-labels":              igen.CategoryModify,
		"remove-labels":           igen.CategoryModify,
		"delete":                  igen.CategoryDelete,
		"add-iam-policy-binding":  igen.CategorySecurity,
		"get-iam-policy":          igen.CategorySecurity,
		"cp":                      igen.CategoryTransfer,
		"export":                  igen.CategoryTransfer,
		"pause":                   igen.CategoryControl,
		"Create":                  igen.CategoryCreate,
		"detach-subscription":     igen.CategoryOther,
		"":                        igen.CategoryOther,
	}

	for action, want := range tests {
		t.Run(action, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, igen.CategoryFor(action))
		})
	}
}

func newPubsubTree() *igen.CommandNode {
	root := igen.NewCommandNode("pubsub", "pubsub", "https://example.com/pubsub")

	topics := igen.NewCommandNode("topics", "pubsub topics", "https://example.com/pubsub/topics")
	create := igen.NewCommandNode("create", "pubsub topics create", "https://example.com/pubsub/topics/create")
	create.PositionalArgs.Set("TOPIC", igen.Flag{Flag: "TOPIC"})
	list := igen.NewCommandNode("list", "pubsub topics list", "https://example.com/pubsub/topics/list")
	topics.SubCommands["create"] = igen.Entry{Node: create}
	topics.SubCommands["list"] = igen.Entry{Node: list}
	topics.SubCommands["delete"] = igen.Entry{Ref: "pubsub/topics/delete"}

	publish := igen.NewCommandNode("publish", "pubsub publish", "https://example.com/pubsub/publish")
	publish.PositionalArgs.Set("TOPIC", igen.Flag{Flag: "TOPIC"})
	publish.RequiredFlags.Set("message", igen.Flag{Flag: "--message=MESSAGE"})
	publish.RequiredFlags.Set("TOPIC", igen.Flag{Flag: "--topic"})

	root.SubGroups["topics"] = igen.Entry{Node: topics}
	root.SubGroups["schemas"] = igen.Entry{Ref: "pubsub/schemas"}
	root.SubCommands["publish"] = igen.Entry{Node: publish}
	return root
}

func TestCatalogFromCommand(t *testing.T) {
	t.Parallel()

	c := igen.CatalogFromCommand(newPubsubTree(), "gcloud")

	assert.Equal(t, "pubsub", c.Service)
	assert.Equal(t, igen.CatalogStats{Resources: 2, Categories: 3, Actions: 3}, c.Stats())

	def, err := c.ActionDef("topics", igen.CategoryCreate, "create")
	require.NoError(t, err)
	assert.Equal(t, "gcloud pubsub topics create {TOPIC}", def.Cmd)
	assert.Equal(t, []string{"TOPIC"}, def.Params)

	def, err = c.ActionDef("topics", igen.CategoryQuery, "list")
	require.NoError(t, err)
	assert.Equal(t, "gcloud pubsub topics list", def.Cmd)
	assert.Empty(t, def.Params)

	t.Run("commands under the root are filed under the root name", func(t *testing.T) {
		t.Parallel()

		def, err := c.ActionDef("pubsub", igen.CategoryCreate, "publish")
		require.NoError(t, err)
		assert.Equal(t, "gcloud pubsub publish {TOPIC} --message={message}", def.Cmd)
		assert.Equal(t, []string{"TOPIC", "message"}, def.Params)
		require.NoError(t, def.Validate())
	})

	t.Run("references are skipped", func(t *testing.T) {
		t.Parallel()

		_, err := c.ActionDef("topics", igen.CategoryDelete, "delete")
		assert.Equal(t, igen.ENOTFOUND, igen.ErrorCode(err))
		assert.Nil(t, c.Resource("schemas"))
	})

	t.Run("nested groups join with dots", func(t *testing.T) {
		t.Parallel()

		root := igen.NewCommandNode("pubsub", "pubsub", "")
		lite := igen.NewCommandNode("lite-topics", "pubsub lite-topics", "")
		reservations := igen.NewCommandNode("reservations", "pubsub lite-topics reservations", "")
		reservations.SubCommands["list"] = igen.Entry{Node: igen.NewCommandNode("list", "pubsub lite-topics reservations list", "")}
		lite.SubGroups["reservations"] = igen.Entry{Node: reservations}
		root.SubGroups["lite-topics"] = igen.Entry{Node: lite}

		c := igen.CatalogFromCommand(root, "gcloud")

		def, err := c.ActionDef("lite-topics.reservations", igen.CategoryQuery, "list")
		require.NoError(t, err)
		assert.Equal(t, "gcloud pubsub lite-topics reservations list", def.Cmd)
	})
}
