package queueblocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/blockflow/blockflow/internal/block"
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/internal/value"
)

func run(t *testing.T, pub Publisher, in block.Inputs) (block.Outputs, error) {
	t.Helper()
	reg := registry.New()
	require.NoError(t, New().Register(reg))
	reg.Seal()

	blk, err := reg.Resolve("queue:publish")
	require.NoError(t, err)
	ec := block.NewContext("run", "node0", map[string]any{App: pub})
	return blk.Execute(context.Background(), ec, in, nil)
}

func TestPublishString(t *testing.T) {
	pub := NewMemoryPublisher()
	outs, err := run(t, pub, block.Inputs{
		"queue": cty.StringVal("events"),
		"body":  cty.StringVal("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "events", outs["queue"].AsString())

	msgs := pub.Messages("events")
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte("hello"), msgs[0])
}

func TestPublishBytes(t *testing.T) {
	pub := NewMemoryPublisher()
	_, err := run(t, pub, block.Inputs{
		"queue": cty.StringVal("blobs"),
		"body":  value.BytesVal([]byte{0x01, 0x02}),
	})
	require.NoError(t, err)

	msgs := pub.Messages("blobs")
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte{0x01, 0x02}, msgs[0])
}

func TestPublishRejectsUnsupportedBody(t *testing.T) {
	pub := NewMemoryPublisher()
	_, err := run(t, pub, block.Inputs{
		"queue": cty.StringVal("events"),
		"body":  cty.ListVal([]cty.Value{cty.StringVal("x")}),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot publish")
}

func TestPublishWithoutAdapter(t *testing.T) {
	reg := registry.New()
	require.NoError(t, New().Register(reg))
	reg.Seal()

	blk, err := reg.Resolve("queue:publish")
	require.NoError(t, err)
	ec := block.NewContext("run", "node0", map[string]any{})
	_, err = blk.Execute(context.Background(), ec, block.Inputs{
		"queue": cty.StringVal("events"),
		"body":  cty.StringVal("hello"),
	}, nil)
	require.Error(t, err)
}
