package dao

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feralaibot/Feral-Ai-website/base/stores/gdb"
)

func newTestDao(t *testing.T) *Dao {
	db, err := gdb.NewDB(&gdb.Config{
		Driver:   gdb.DriverSqlite,
		Database: filepath.Join(t.TempDir(), "feral.db"),
	})
	require.NoError(t, err)
	d := New(context.Background(), db, nil)
	require.NoError(t, d.Migrate(context.Background()))
	return d
}

func TestSeedContent(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)

	require.NoError(t, d.SeedContent(ctx))
	require.NoError(t, d.SeedContent(ctx))

	tools, err := d.QueryTools(ctx)
	require.NoError(t, err)
	require.Len(t, tools, len(defaultTools))
	assert.Equal(t, "Evolution Machine", tools[0].Name)
	assert.True(t, tools[0].IsHolderOnly)
	assert.False(t, tools[1].IsHolderOnly)
	assert.Equal(t, ToolStatusComingSoon, tools[2].Status)

	lore, err := d.QueryLore(ctx)
	require.NoError(t, err)
	require.Len(t, lore, len(defaultLore))
	assert.Equal(t, "Transmission #442", lore[3].Title)
}

func TestSeedContentFixesExistingRows(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)

	legacy := []Tool{
		{Name: "Trait Preview", Description: "d", Path: "/preview", Status: ToolStatusLive, Icon: "Eye"},
		{Name: "Wallet Scan", Description: "d", Path: "/scan-old", Status: ToolStatusComingSoon, Icon: "Old"},
		{Name: "Generator", Description: "d", Path: "/generator", Status: ToolStatusLive, Icon: "Image"},
		{Name: "Evolution Machine", Description: "d", Path: "/evolve", Status: ToolStatusLive, Icon: "Zap"},
	}
	require.NoError(t, d.DB.Create(&legacy).Error)

	require.NoError(t, d.SeedContent(ctx))

	tools, err := d.QueryTools(ctx)
	require.NoError(t, err)
	require.Len(t, tools, 3)

	byName := make(map[string]Tool)
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	assert.NotContains(t, byName, "Trait Preview")
	assert.Equal(t, Tool{
		ID: byName["Wallet Scan"].ID, Name: "Wallet Scan", Description: "d",
		Path: "/tools/scan", Status: ToolStatusLive, IsHolderOnly: true, Icon: "Scan",
	}, byName["Wallet Scan"])
	assert.Equal(t, "/generator/index.html", byName["Generator"].Path)
	assert.True(t, byName["Evolution Machine"].IsHolderOnly)
}
