package main_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Marlup/gcloud-instruction-generator"
	main "github.com/Marlup/gcloud-instruction-generator/cmd/igen"
	"github.com/Marlup/gcloud-instruction-generator/fs"
	"github.com/Marlup/gcloud-instruction-generator/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storageCatalog() *igen.Catalog {
	c := igen.NewCatalog("storage")
	c.SetAction("buckets", "create", "create", igen.ActionDef{
		Cmd:    "gcloud storage buckets create gs://{bucket} --project={project}",
		Params: []string{"bucket", "project"},
	})
	c.SetAction("buckets", "query", "list", igen.ActionDef{Cmd: "gcloud storage buckets list"})
	c.AddResource("objects").AddCategory("delete")
	return c
}

func newDeps(stdout, stderr *bytes.Buffer) *main.Dependencies {
	return &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: stderr,
		Catalogs: &mock.CatalogLoader{
			LoadCatalogFn: func(_ context.Context, service string) (*igen.Catalog, error) {
				if service != "storage" {
					return nil, igen.Errorf(igen.ENOTFOUND, "service %q not found", service)
				}
				return storageCatalog(), nil
			},
		},
	}
}

func TestBuildCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("substitutes values and defaults", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Defaults = map[string]string{"project": "demo", "zone": "ignored"}

		cmd := &main.BuildCmd{Service: "storage", Resource: "buckets", Category: "create", Action: "create", Params: []string{"bucket=logs"}}

		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "gcloud storage buckets create gs://logs --project=demo\n", stdout.String())
		assert.Empty(t, stderr.String())
	})

	t.Run("explicit values override defaults", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Defaults = map[string]string{"project": "demo"}

		cmd := &main.BuildCmd{Service: "storage", Resource: "buckets", Category: "create", Action: "create", Params: []string{"bucket=logs", "project=prod"}}

		require.NoError(t, cmd.Run(deps))
		assert.Equal(t, "gcloud storage buckets create gs://logs --project=prod\n", stdout.String())
	})

	t.Run("reports missing parameters", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		cmd := &main.BuildCmd{Service: "storage", Resource: "buckets", Category: "create", Action: "create", Params: []string{"bucket=logs"}}

		err := cmd.Run(newDeps(stdout, stderr))

		assert.Equal(t, igen.EMISSINGPARAM, igen.ErrorCode(err))
		assert.Contains(t, stderr.String(), `"project"`)
		assert.Empty(t, stdout.String())
	})

	t.Run("rejects malformed parameters", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		cmd := &main.BuildCmd{Service: "storage", Resource: "buckets", Category: "create", Action: "create", Params: []string{"bucket"}}

		err := cmd.Run(newDeps(stdout, stderr))

		assert.Equal(t, igen.EINVALID, igen.ErrorCode(err))
	})

	t.Run("reports unknown actions", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		cmd := &main.BuildCmd{Service: "storage", Resource: "buckets", Category: "create", Action: "clone"}

		err := cmd.Run(newDeps(stdout, stderr))

		assert.Equal(t, igen.ENOTFOUND, igen.ErrorCode(err))
		assert.Contains(t, stderr.String(), "igen actions storage")
	})
}

func TestShowCmd_Run(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	deps := newDeps(stdout, stderr)
	deps.Defaults = map[string]string{"project": "demo"}

	cmd := &main.ShowCmd{Service: "storage", Resource: "buckets", Category: "create", Action: "create"}

	require.NoError(t, cmd.Run(deps))
	assert.Contains(t, stdout.String(), "cmd:    gcloud storage buckets create gs://{bucket} --project={project}")
	assert.Contains(t, stdout.String(), `params: bucket, project (default "demo")`)
}

func TestActionsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists actions by resource and category", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		cmd := &main.ActionsCmd{Service: "storage"}

		require.NoError(t, cmd.Run(newDeps(stdout, stderr)))
		assert.Equal(t, "buckets / create: create\n"+
			"buckets / query: list\n"+
			"objects / delete: (none)\n"+
			"\n"+
			"storage: 2 resources, 3 categories, 2 actions\n", stdout.String())
	})

	t.Run("reports unknown services", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		cmd := &main.ActionsCmd{Service: "compute"}

		err := cmd.Run(newDeps(stdout, stderr))

		assert.Equal(t, igen.ENOTFOUND, igen.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestNormalizeCmd_Run(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	flat := filepath.Join(root, "storage", fs.FlatFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(flat), 0755))
	require.NoError(t, os.WriteFile(flat, []byte(`{"buckets": {"query": {"list": {"cmd": "gcloud storage buckets list", "params": []}}}}`), 0644))

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	deps := newDeps(stdout, stderr)
	deps.Loader = fs.NewLoader(root)
	deps.Writer = fs.NewWriter(root)

	require.NoError(t, (&main.NormalizeCmd{}).Run(deps))
	assert.Contains(t, stdout.String(), "ok   storage: 1 resources, 1 categories, 1 actions")
	assert.FileExists(t, filepath.Join(root, "storage", "buckets", "query", fs.LeafFile))
}

func TestHistoryCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("marks signature changes", func(t *testing.T) {
		t.Parallel()

		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		var got igen.SignatureFilter
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Signatures = &mock.SignatureService{
			FindSignaturesFn: func(_ context.Context, filter igen.SignatureFilter) ([]*igen.SignatureRecord, error) {
				got = filter
				return []*igen.SignatureRecord{
					{RunID: "run-3", Signature: "bbbbbbbbbbbbbbbb", CrawledAt: base.Add(2 * time.Hour)},
					{RunID: "run-2", Signature: "aaaaaaaaaaaaaaaa", CrawledAt: base.Add(time.Hour)},
					{RunID: "run-1", Signature: "aaaaaaaaaaaaaaaa", CrawledAt: base},
				}, nil
			},
		}

		cmd := &main.HistoryCmd{Path: []string{"pubsub", "topics"}, Limit: 2}

		require.NoError(t, cmd.Run(deps))
		require.NotNil(t, got.Path)
		assert.Equal(t, "pubsub topics", *got.Path)
		assert.Equal(t, 3, got.Limit)
		assert.Equal(t, "* 2025-03-01T14:00:00Z  bbbbbbbbbbbb  run-3\n"+
			"  2025-03-01T13:00:00Z  aaaaaaaaaaaa  run-2\n", stdout.String())
	})

	t.Run("shows hint when nothing is recorded", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Signatures = &mock.SignatureService{
			FindSignaturesFn: func(context.Context, igen.SignatureFilter) ([]*igen.SignatureRecord, error) {
				return nil, nil
			},
		}

		require.NoError(t, (&main.HistoryCmd{Path: []string{"info"}}).Run(deps))
		assert.Contains(t, stdout.String(), "No signatures recorded")
	})

	t.Run("reports lookup failures", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Signatures = &mock.SignatureService{
			FindSignaturesFn: func(context.Context, igen.SignatureFilter) ([]*igen.SignatureRecord, error) {
				return nil, errors.New("disk I/O error")
			},
		}

		require.Error(t, (&main.HistoryCmd{Path: []string{"info"}}).Run(deps))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestCrawlCmd_Run_RejectsInvalidTargets(t *testing.T) {
	t.Parallel()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := &main.CrawlCmd{Mode: "single", Targets: []string{"pubsub", "storage"}}

	err := cmd.Run(newDeps(stdout, stderr))

	assert.Equal(t, igen.EUNSUPPORTED, igen.ErrorCode(err))
	assert.Contains(t, stderr.String(), "exactly one root")
}

func TestCrawlCmd_Run_DryRun(t *testing.T) {
	t.Parallel()

	t.Run("lists resolved targets without crawling", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		cmd := &main.CrawlCmd{Mode: "partial", Targets: []string{"pubsub", "storage", "pubsub"}, Depth: 2, DryRun: true}

		require.NoError(t, cmd.Run(newDeps(stdout, stderr)))
		assert.Equal(t, "  pubsub\n  storage\n2 roots (partial, depth 2)\n", stdout.String())
	})

	t.Run("full mode takes no targets", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		cmd := &main.CrawlCmd{Mode: "full", Targets: []string{"pubsub"}, DryRun: true}

		err := cmd.Run(newDeps(stdout, stderr))

		assert.Equal(t, igen.EUNSUPPORTED, igen.ErrorCode(err))
		assert.Empty(t, stdout.String())
	})
}

func crawledPubsub(t *testing.T, root string) {
	t.Helper()

	node := igen.NewCommandNode("pubsub", "pubsub", "https://example.com/ref/pubsub")
	publish := igen.NewCommandNode("publish", "pubsub publish", "https://example.com/ref/pubsub/publish")
	publish.RequiredFlags.Set("topic", igen.Flag{Flag: "--topic=TOPIC"})
	node.SubCommands["publish"] = igen.Entry{Node: publish}
	require.NoError(t, fs.NewWriter(root).WriteCommand(context.Background(), node))
}

func TestExportCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes the derived catalog", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		crawledPubsub(t, root)

		var written *igen.Catalog
		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Loader = fs.NewLoader(root)
		deps.Exporter = &mock.CatalogWriter{
			WriteCatalogFn: func(_ context.Context, c *igen.Catalog) error {
				written = c
				return nil
			},
		}

		require.NoError(t, (&main.ExportCmd{Services: []string{"pubsub"}, Binary: "gcloud"}).Run(deps))
		require.NotNil(t, written)
		def, err := written.ActionDef("pubsub", igen.CategoryCreate, "publish")
		require.NoError(t, err)
		assert.Equal(t, "gcloud pubsub publish --topic={topic}", def.Cmd)
		assert.Equal(t, "Exported pubsub: 1 resources, 1 categories, 1 actions\n", stdout.String())
	})

	t.Run("reports write failures", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		crawledPubsub(t, root)

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Loader = fs.NewLoader(root)
		deps.Exporter = &mock.CatalogWriter{
			WriteCatalogFn: func(context.Context, *igen.Catalog) error {
				return errors.New("disk full")
			},
		}

		err := (&main.ExportCmd{Services: []string{"pubsub"}, Binary: "gcloud"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "disk full")
		assert.Empty(t, stdout.String())
	})

	t.Run("hints at crawling an unknown service", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Loader = fs.NewLoader(t.TempDir())

		err := (&main.ExportCmd{Services: []string{"pubsub"}, Binary: "gcloud"}).Run(deps)

		assert.Equal(t, igen.ENOTFOUND, igen.ErrorCode(err))
		assert.Contains(t, stderr.String(), "igen crawl single pubsub")
	})
}

func TestFlagsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists stored flags in order", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		flags := igen.NewFlags()
		flags.Set("project", igen.Flag{Flag: "--project=PROJECT_ID", Description: "The project to use."})
		flags.Set("quiet", igen.Flag{Flag: "--quiet, -q"})
		require.NoError(t, fs.NewWriter(root).WriteFlags(context.Background(), igen.GlobalFlags, flags))

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Loader = fs.NewLoader(root)

		require.NoError(t, (&main.FlagsCmd{Kind: "global"}).Run(deps))
		assert.Equal(t, "--project=PROJECT_ID\n    The project to use.\n--quiet, -q\n\n2 global flags\n", stdout.String())
	})

	t.Run("hints at a full crawl when nothing is stored", func(t *testing.T) {
		t.Parallel()

		stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
		deps := newDeps(stdout, stderr)
		deps.Loader = fs.NewLoader(t.TempDir())

		err := (&main.FlagsCmd{Kind: "other"}).Run(deps)

		assert.Equal(t, igen.ENOTFOUND, igen.ErrorCode(err))
		assert.Contains(t, stderr.String(), "igen crawl full")
	})
}
