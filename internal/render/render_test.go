package render

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revamp-labs/revamp/internal/file"
)

func TestParseFrontMatter(t *testing.T) {
	rec := file.New(".verb.md", "/proj", []byte("---\ntitle: My Lib\ntags: [a, b]\n---\n# {%= .title %}\n"))

	require.NoError(t, ParseFrontMatter(rec))

	assert.Equal(t, "My Lib", rec.Data["title"])
	assert.Equal(t, []any{"a", "b"}, rec.Data["tags"])
	assert.Equal(t, "title: My Lib\ntags: [a, b]", rec.Data["matter"])
	assert.Equal(t, "# {%= .title %}\n", rec.Content())
}

func TestParseFrontMatterEmptyBlock(t *testing.T) {
	rec := file.New("a.md", "/proj", []byte("---\n---\nbody"))
	require.NoError(t, ParseFrontMatter(rec))
	assert.Equal(t, "body", rec.Content())
}

func TestParseFrontMatterNone(t *testing.T) {
	rec := file.New("a.md", "/proj", []byte("# Title\n---\n"))
	require.NoError(t, ParseFrontMatter(rec))
	assert.Equal(t, "# Title\n---\n", rec.Content())
	assert.Empty(t, rec.Data)
}

func TestParseFrontMatterUnclosed(t *testing.T) {
	rec := file.New("a.md", "/proj", []byte("---\ntitle: x\n"))
	assert.Error(t, ParseFrontMatter(rec))
}

func TestRenderMergesContext(t *testing.T) {
	rec := file.New("README.md", "/proj", []byte(`# {%= .name %} {%= default "n/a" .missing %}
{%= .description %} ({%= year %})`))
	rec.Data["description"] = "from front matter"

	require.NoError(t, Render(rec, map[string]any{"name": "my-lib", "description": "from package"}))

	want := "# my-lib n/a\nfrom front matter (" + strconv.Itoa(time.Now().Year()) + ")"
	assert.Equal(t, want, rec.Content())
}

func TestRenderParseError(t *testing.T) {
	rec := file.New("README.md", "/proj", []byte("{%= .name "))
	assert.Error(t, Render(rec, nil))
}

func TestRenderLeavesBracesAlone(t *testing.T) {
	content := "# {%= .name %}\n\n```hbs\n{{#each items}}{{this}}{{/each}}\n```\n"
	rec := file.New("README.md", "/proj", []byte(content))

	require.NoError(t, Render(rec, map[string]any{"name": "my-lib"}))
	assert.Equal(t, "# my-lib\n\n```hbs\n{{#each items}}{{this}}{{/each}}\n```\n", rec.Content())
}
