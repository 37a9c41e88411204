package plaintext

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lectern-labs/lectern-cli/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestListPages_SinglePage(t *testing.T) {
	path := writeFile(t, "notes.txt", "  Neural networks are function approximators.\n\nMore notes.\n")

	pages, err := New().ListPages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.Equal(t, 1, pages[0].Number)
	assert.Equal(t, "Neural networks are function approximators.\n\nMore notes.", pages[0].Text)
}

func TestListPages_EmptyFile(t *testing.T) {
	for _, content := range []string{"", "   \n\t\n"} {
		path := writeFile(t, "empty.txt", content)

		pages, err := New().ListPages(context.Background(), path)
		require.NoError(t, err)
		assert.Empty(t, pages)
	}
}

func TestListPages_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.txt")
	require.NoError(t, os.WriteFile(path, []byte{'c', 'a', 'f', 0xe9}, 0o644))

	pages, err := New().ListPages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.True(t, len(pages[0].Text) > 0)
}

func TestRenderPage(t *testing.T) {
	path := writeFile(t, "notes.md", "# Heading\n\nBody.\n")
	e := New()

	data, err := e.RenderPage(context.Background(), path, 1)
	require.NoError(t, err)
	assert.Equal(t, "# Heading\n\nBody.\n", string(data))

	_, err = e.RenderPage(context.Background(), path, 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
