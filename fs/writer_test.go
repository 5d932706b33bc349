package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/Marlup/gcloud-instruction-generator/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ igen.CommandWriter = fs.NewWriter("")
	var _ igen.CatalogWriter = fs.NewWriter("")
}

func newTopicsNode() *igen.CommandNode {
	node := igen.NewCommandNode("pubsub", "pubsub", "https://example.com/ref/pubsub")
	node.Synopsis = "gcloud pubsub GROUP | COMMAND"
	node.Description = "Manage Cloud Pub/Sub <topics> & subscriptions."

	topics := igen.NewCommandNode("topics", "pubsub topics", "https://example.com/ref/pubsub/topics")
	topics.SubCommands["create"] = igen.Entry{Ref: "pubsub/topics/create"}
	topics.Signature = topics.ComputeSignature()

	publish := igen.NewCommandNode("publish", "pubsub publish", "https://example.com/ref/pubsub/publish")
	publish.RequiredFlags.Set("topic", igen.Flag{Flag: "--topic=TOPIC"})
	publish.RequiredFlags.Set("message", igen.Flag{Flag: "--message=MESSAGE"})
	publish.Signature = publish.ComputeSignature()

	node.SubGroups["topics"] = igen.Entry{Node: topics}
	node.SubGroups["schemas"] = igen.Entry{Ref: "pubsub/schemas"}
	node.SubCommands["publish"] = igen.Entry{Node: publish}
	node.Signature = node.ComputeSignature()
	return node
}

func TestWriter_WriteCommand(t *testing.T) {
	t.Parallel()

	t.Run("writes the tree where the loader reads it", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		node := newTopicsNode()

		err := fs.NewWriter(root).WriteCommand(context.Background(), node)
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(root, "pubsub", "pubsub_command.json"))

		got, err := fs.NewLoader(root).LoadCommand(context.Background(), "pubsub")
		require.NoError(t, err)
		assert.Equal(t, node.Signature, got.Signature)
		assert.Equal(t, node.Description, got.Description)
		assert.Equal(t, igen.Entry{Ref: "pubsub/schemas"}, got.SubGroups["schemas"])
		require.True(t, got.SubGroups["topics"].Expanded())
		assert.Equal(t, "pubsub topics", got.SubGroups["topics"].Node.Path)
		assert.Equal(t, []string{"topic", "message"}, igen.FlagNames(got.SubCommands["publish"].Node.RequiredFlags))
		assert.Equal(t, got.ComputeSignature(), got.Signature)
	})

	t.Run("does not escape HTML characters", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, fs.NewWriter(root).WriteCommand(context.Background(), newTopicsNode()))

		data, err := os.ReadFile(fs.CommandPath(root, "pubsub"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<topics> & subscriptions")
	})

	t.Run("leaves unchanged files alone", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		w := fs.NewWriter(root)

		require.NoError(t, w.WriteCommand(context.Background(), newTopicsNode()))
		require.NoError(t, w.WriteCommand(context.Background(), newTopicsNode()))

		assert.Equal(t, 1, w.Written())
		assert.Equal(t, 1, w.Unchanged())

		changed := newTopicsNode()
		changed.Synopsis = "gcloud pubsub COMMAND"
		require.NoError(t, w.WriteCommand(context.Background(), changed))
		assert.Equal(t, 2, w.Written())
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		require.NoError(t, fs.NewWriter(root).WriteCommand(context.Background(), newTopicsNode()))

		entries, err := os.ReadDir(filepath.Join(root, "pubsub"))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "pubsub_command.json", entries[0].Name())
	})

	t.Run("rejects names that escape the catalog", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"", "..", "a/b", `a\b`} {
			node := igen.NewCommandNode(name, name, "")
			err := fs.NewWriter(t.TempDir()).WriteCommand(context.Background(), node)
			assert.Equal(t, igen.EINVALID, igen.ErrorCode(err), "name %q", name)
		}
	})
}

func TestWriter_WriteFlags(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := fs.NewWriter(root)

	flags := igen.NewFlags()
	flags.Set("verbosity", igen.Flag{Flag: "--verbosity=VERBOSITY"})
	flags.Set("account", igen.Flag{Flag: "--account=ACCOUNT"})

	require.NoError(t, w.WriteFlags(context.Background(), igen.GlobalFlags, flags))
	require.NoError(t, w.WriteFlags(context.Background(), igen.OtherFlags, nil))

	data, err := os.ReadFile(filepath.Join(root, "global_flags.json"))
	require.NoError(t, err)
	assert.Less(t, strings.Index(string(data), "verbosity"), strings.Index(string(data), "account"))

	got, err := fs.NewLoader(root).LoadFlags(context.Background(), igen.OtherFlags)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())

	err = w.WriteFlags(context.Background(), igen.FlagKind("local"), flags)
	assert.Equal(t, igen.EINVALID, igen.ErrorCode(err))
}

func TestWriter_WriteCatalog(t *testing.T) {
	t.Parallel()

	t.Run("writes one leaf per category", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		c := igen.NewCatalog("storage")
		c.SetAction("buckets", "create", "create", igen.ActionDef{Cmd: "gcloud storage buckets create gs://{bucket}", Params: []string{"bucket"}})
		c.SetAction("buckets", "query", "list", igen.ActionDef{Cmd: "gcloud storage buckets list"})
		c.AddResource("objects").AddCategory("delete")

		require.NoError(t, fs.NewWriter(root).WriteCatalog(context.Background(), c))

		assert.FileExists(t, filepath.Join(root, "storage", "buckets", "create", fs.LeafFile))
		assert.FileExists(t, filepath.Join(root, "storage", "buckets", "query", fs.LeafFile))

		data, err := os.ReadFile(filepath.Join(root, "storage", "objects", "delete", fs.LeafFile))
		require.NoError(t, err)
		assert.Equal(t, "{}\n", string(data))
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		t.Parallel()

		c := igen.NewCatalog("storage")
		c.SetAction("../buckets", "query", "list", igen.ActionDef{Cmd: "x"})

		err := fs.NewWriter(t.TempDir()).WriteCatalog(context.Background(), c)
		assert.Equal(t, igen.EINVALID, igen.ErrorCode(err))
	})
}
