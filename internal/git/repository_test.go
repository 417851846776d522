package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryTrackedState(t *testing.T) {
	root := initRepo(t, "a.txt", "dir/b.txt")
	service := NewService(nil, 1)
	repo, err := service.FindOwningRepository(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, repo)

	assert.True(t, repo.IsTracked("a.txt"))
	assert.True(t, repo.IsTracked("dir/"))
	assert.True(t, repo.IsTracked("dir/b.txt"))
	assert.False(t, repo.IsTracked("missing.txt"))
	assert.False(t, repo.IsTracked("other/"))

	result := service.RunCommand(context.Background(), root, CommandRemoveCached, []string{"a.txt"})
	require.True(t, result.Success, result.Output)

	before := repo.Refreshes()
	require.NoError(t, repo.Refresh())
	assert.Equal(t, before+1, repo.Refreshes())
	assert.False(t, repo.IsTracked("a.txt"))
	assert.True(t, repo.IsTracked("dir/b.txt"))
}

func TestRepositoryIgnoreRules(t *testing.T) {
	root := initRepo(t, "main.go")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("*.log\nbuild/\n"), 0o600))

	repo, err := NewService(nil, 1).FindOwningRepository(context.Background(), root)
	require.NoError(t, err)
	require.NoError(t, repo.Refresh())

	assert.True(t, repo.IsIgnored("debug.log", false))
	assert.True(t, repo.IsIgnored("build/", true))
	assert.False(t, repo.IsIgnored("main.go", false))
	assert.False(t, repo.IsIgnored("", true))

	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("main.go\n"), 0o600))
	require.NoError(t, repo.Refresh())
	assert.True(t, repo.IsIgnored("main.go", false))
	assert.False(t, repo.IsIgnored("debug.log", false))
}
