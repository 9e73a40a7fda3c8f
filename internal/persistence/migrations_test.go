package persistence

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for _, name := range names {
		content, err := migrationFiles.ReadFile(name)
		require.NoError(t, err)
		assert.Contains(t, strings.ToUpper(string(content)), "IF NOT EXISTS", name)
	}
}

func TestIndexSpecs_UniqueRules(t *testing.T) {
	specs := IndexSpecs()

	unique := func(collection string) bool {
		for _, model := range specs[collection] {
			if model.Options != nil && model.Options.Unique != nil && *model.Options.Unique {
				return true
			}
		}
		return false
	}

	assert.True(t, unique(CollectionUsers))
	assert.True(t, unique(CollectionTeams))
	assert.False(t, unique(CollectionNews))
}
