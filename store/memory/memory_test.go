package memory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/latefee/config"
	"github.com/warp/latefee/store"
	"github.com/warp/latefee/store/memory"
)

func TestMemory_GetSetHistory(t *testing.T) {
	m := memory.New()
	ctx := context.Background()

	_, err := m.Get(ctx)
	require.True(t, store.IsNotFound(err))

	first := config.Default()
	second := config.Default()
	second.Rate = decimal.RequireFromString("2.75")

	require.NoError(t, m.Set(ctx, first))
	require.NoError(t, m.Set(ctx, second))

	got, err := m.Get(ctx)
	require.NoError(t, err)
	assert.True(t, second.Rate.Equal(got.Rate))

	history, err := m.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, second.Rate.Equal(history[0].Config.Rate))

	all, err := m.History(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemory_Set_RejectsInvalid(t *testing.T) {
	m := memory.New()
	cfg := config.Default()
	cfg.Rate = decimal.NewFromInt(-1)

	err := m.Set(context.Background(), cfg)

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
