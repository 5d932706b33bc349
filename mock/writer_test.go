package mock_test

import (
	"context"
	"testing"

	"github.com/Marlup/gcloud-instruction-generator"
	"github.com/Marlup/gcloud-instruction-generator/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandWriter_ImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ igen.CommandWriter = &mock.CommandWriter{}
}

func TestCommandWriter_WriteCommand(t *testing.T) {
	t.Parallel()

	t.Run("delegates to WriteCommandFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *igen.CommandNode
		w := &mock.CommandWriter{
			WriteCommandFn: func(_ context.Context, node *igen.CommandNode) error {
				calledWith = node
				return nil
			},
		}

		node := igen.NewCommandNode("storage", "storage", "https://example.com/storage")

		err := w.WriteCommand(context.Background(), node)

		require.NoError(t, err)
		assert.Equal(t, node, calledWith)
	})
}

func TestCommandWriter_WriteFlags(t *testing.T) {
	t.Parallel()

	var gotKind igen.FlagKind
	w := &mock.CommandWriter{
		WriteFlagsFn: func(_ context.Context, kind igen.FlagKind, _ *igen.Flags) error {
			gotKind = kind
			return nil
		},
	}

	require.NoError(t, w.WriteFlags(context.Background(), igen.GlobalFlags, igen.NewFlags()))
	assert.Equal(t, igen.GlobalFlags, gotKind)
}
