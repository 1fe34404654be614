package adapters_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercehub/backend/internal/domain/platform"
	"github.com/commercehub/backend/internal/domain/standard"
	"github.com/commercehub/backend/internal/infrastructure/adapters"
	"github.com/commercehub/backend/internal/infrastructure/adapters/faire"
)

func TestRegistry_GetRegistered(t *testing.T) {
	adapter, err := faire.NewAdapter(nil)
	require.NoError(t, err)

	registry := adapters.NewRegistry()
	registry.Register(adapter)

	got, err := registry.Get(standard.PlatformFaire)
	require.NoError(t, err)
	assert.Equal(t, standard.PlatformFaire, got.Platform())
}

func TestRegistry_GetUnregistered(t *testing.T) {
	registry := adapters.NewRegistry()

	_, err := registry.Get(standard.PlatformShopify)
	assert.ErrorIs(t, err, platform.ErrNotRegistered)
}

func TestRegistry_List(t *testing.T) {
	adapter, err := faire.NewAdapter(nil)
	require.NoError(t, err)

	registry := adapters.NewRegistry()
	assert.Empty(t, registry.List())

	registry.Register(adapter)
	assert.Len(t, registry.List(), 1)
}
