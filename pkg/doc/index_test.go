package doc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctor/pkg/logger"
)

const yamlIndex = `
source: jdk-21
elements:
  - qualified_name: java.util.List
    kind: interface
    declaration: public interface List<E> extends Collection<E>
    description: An ordered collection.
    url: https://docs.example/java/util/List.html
  - qualified_name: java.util.List#add(E)
    kind: method
  - qualified_name: java.util.List#add(int,E)
    kind: method
  - qualified_name: java.util.Map
    kind: interface
`

const jsonIndex = `{
  "elements": [
    {"qualified_name": "java.awt.List", "kind": "class"},
    {"qualified_name": "org.example.list", "kind": "class"}
  ]
}`

func writeIndex(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jdk.yaml"), []byte(yamlIndex), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "extra"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra", "awt.json"), []byte(jsonIndex), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))
	return dir
}

func names(results []FuzzyQueryResult) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.QualifiedName)
	}
	return out
}

func TestIndexLoadsYAMLAndJSON(t *testing.T) {
	dir := writeIndex(t)
	index := NewIndex(logger.NewNop(), IndexOptions{Paths: []string{dir, filepath.Join(dir, "missing")}, MaxDistance: 1})
	require.NoError(t, index.Load())
	assert.Equal(t, 6, index.Len())

	loaded, err := index.FindByQualifiedName(context.Background(), "java.util.List")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "jdk-21", loaded[0].Source)
	assert.Equal(t, "An ordered collection.", loaded[0].Element.Description)

	loaded, err = index.FindByQualifiedName(context.Background(), "java.awt.List")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "awt", loaded[0].Source, "source defaults to the file name")
}

func TestIndexLoadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("elements:\n  - kind: class\n"), 0644))

	index := NewIndex(logger.NewNop(), IndexOptions{Paths: []string{dir}})
	index.Add("seed", &Element{QualifiedName: "a.Kept"})

	assert.Error(t, index.Load())
	assert.Equal(t, 1, index.Len(), "failed reload keeps previous contents")
}

func TestIndexQueryFlags(t *testing.T) {
	dir := writeIndex(t)
	index := NewIndex(logger.NewNop(), IndexOptions{Paths: []string{dir}, MaxDistance: 1})
	require.NoError(t, index.Load())
	ctx := context.Background()

	results, err := index.Query(ctx, "List")
	require.NoError(t, err)
	byName := make(map[string]FuzzyQueryResult)
	for _, r := range results {
		byName[r.QualifiedName] = r
	}

	require.Contains(t, byName, "java.util.List")
	require.Contains(t, byName, "java.awt.List")
	require.Contains(t, byName, "org.example.list")
	assert.True(t, byName["java.util.List"].Exact)
	assert.True(t, byName["java.util.List"].CaseSensitiveExact)
	assert.True(t, byName["org.example.list"].Exact)
	assert.False(t, byName["org.example.list"].CaseSensitiveExact)
	assert.NotContains(t, byName, "java.util.List#add(E)", "type queries do not return members")

	results, err = index.Query(ctx, "java.util.List")
	require.NoError(t, err)
	assert.Equal(t, []string{"java.util.List"}, names(results))

	results, err = index.Query(ctx, "util.List")
	require.NoError(t, err)
	assert.Equal(t, []string{"java.util.List"}, names(results))
}

func TestIndexQueryMembers(t *testing.T) {
	dir := writeIndex(t)
	index := NewIndex(logger.NewNop(), IndexOptions{Paths: []string{dir}})
	require.NoError(t, index.Load())
	ctx := context.Background()

	results, err := index.Query(ctx, "java.util.List#add")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"java.util.List#add(E)", "java.util.List#add(int,E)"}, names(results))
	for _, r := range results {
		assert.True(t, r.Exact)
	}

	results, err = index.Query(ctx, "java.util.List#add(int")
	require.NoError(t, err)
	assert.Equal(t, []string{"java.util.List#add(int,E)"}, names(results))
	assert.False(t, results[0].Exact)

	results, err = index.Query(ctx, "java.util.List#add(int, E)")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Exact)
}

func TestIndexFuzzyMatching(t *testing.T) {
	index := NewIndex(logger.NewNop(), IndexOptions{MaxDistance: 1})
	index.Add("jdk", &Element{QualifiedName: "java.lang.String"}, &Element{QualifiedName: "java.lang.Integer"})
	ctx := context.Background()

	results, err := index.Query(ctx, "Strng")
	require.NoError(t, err)
	require.Equal(t, []string{"java.lang.String"}, names(results))
	assert.False(t, results[0].Exact)

	index.SetOptions(IndexOptions{MaxDistance: 0})
	results, err = index.Query(ctx, "Strng")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexQueryRankingAndCap(t *testing.T) {
	index := NewIndex(logger.NewNop(), IndexOptions{MaxResults: 2, MaxDistance: 2})
	index.Add("jdk",
		&Element{QualifiedName: "a.Mapper"},
		&Element{QualifiedName: "b.Map"},
		&Element{QualifiedName: "c.Mat"},
		&Element{QualifiedName: "d.Mapping"},
	)

	results, err := index.Query(context.Background(), "Map")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.Map", "a.Mapper"}, names(results))
}

func TestIndexQueryEmptyText(t *testing.T) {
	index := NewIndex(logger.NewNop(), IndexOptions{})
	index.Add("jdk", &Element{QualifiedName: "a.A"})

	results, err := index.Query(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jdk.yaml")
	require.NoError(t, os.WriteFile(path, []byte("elements:\n  - qualified_name: a.One\n"), 0644))

	index := NewIndex(logger.NewNop(), IndexOptions{Paths: []string{dir}})
	require.NoError(t, index.Load())
	require.Equal(t, 1, index.Len())

	watcher, err := NewWatcher(logger.NewNop(), index)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("elements:\n  - qualified_name: a.One\n  - qualified_name: a.Two\n"), 0644))

	assert.Eventually(t, func() bool { return index.Len() == 2 }, 5*time.Second, 50*time.Millisecond)
}

func TestWatcherFollowsNewPaths(t *testing.T) {
	first := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(first, "jdk.yaml"), []byte("elements:\n  - qualified_name: a.One\n"), 0644))

	index := NewIndex(logger.NewNop(), IndexOptions{Paths: []string{first}})
	require.NoError(t, index.Load())

	watcher, err := NewWatcher(logger.NewNop(), index)
	require.NoError(t, err)
	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	second := t.TempDir()
	index.SetOptions(IndexOptions{Paths: []string{first, second}})
	require.NoError(t, index.Load())
	require.NoError(t, watcher.Sync())

	require.NoError(t, os.WriteFile(filepath.Join(second, "extra.yaml"), []byte("elements:\n  - qualified_name: b.Two\n"), 0644))

	assert.Eventually(t, func() bool { return index.Len() == 2 }, 5*time.Second, 50*time.Millisecond)
}
