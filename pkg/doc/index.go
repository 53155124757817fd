package doc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"doctor/pkg/logger"
)

// IndexOptions configures an Index.
type IndexOptions struct {
	Paths       []string // files or directories holding index files
	MaxResults  int      // cap on candidates per query
	MaxDistance int      // levenshtein tolerance for names, 0 disables fuzzy matching
}

// indexFile is the on-disk layout. JSON files decode through the same
// YAML decoder.
type indexFile struct {
	Source   string     `yaml:"source"`
	Elements []*Element `yaml:"elements"`
}

type indexEntry struct {
	element *Element
	source  string
	name    elementName
}

// Index is an in-memory element index. It implements QueryAPI and
// ElementLoader and can be reloaded while serving queries.
type Index struct {
	log     *logger.Logger
	opts    IndexOptions
	entries []indexEntry
	byName  map[string][]indexEntry
	mu      sync.RWMutex
}

// NewIndex creates an empty index.
func NewIndex(log *logger.Logger, opts IndexOptions) *Index {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 25
	}
	return &Index{
		log:    log,
		opts:   opts,
		byName: make(map[string][]indexEntry),
	}
}

// SetOptions changes the options used by later loads and queries.
func (i *Index) SetOptions(opts IndexOptions) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 25
	}
	i.mu.Lock()
	i.opts = opts
	i.mu.Unlock()
}

// Paths returns the configured index paths.
func (i *Index) Paths() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return append([]string(nil), i.opts.Paths...)
}

// Load reads every index file under the configured paths and replaces the
// current contents. Missing paths are skipped. On error the previous
// contents stay in place.
func (i *Index) Load() error {
	var files []string
	for _, root := range i.Paths() {
		found, err := indexFiles(root)
		if err != nil {
			return err
		}
		files = append(files, found...)
	}

	var entries []indexEntry
	for _, path := range files {
		loaded, err := readIndexFile(path)
		if err != nil {
			return err
		}
		entries = append(entries, loaded...)
	}

	i.replace(entries)
	i.log.Info("Loaded Javadoc index",
		zap.Int("files", len(files)),
		zap.Int("elements", len(entries)))
	return nil
}

// Add inserts elements under the given source name.
func (i *Index) Add(source string, elements ...*Element) {
	i.mu.Lock()
	defer i.mu.Unlock()

	entries := append([]indexEntry(nil), i.entries...)
	for _, el := range elements {
		entries = append(entries, newEntry(el, source))
	}
	i.entries = entries
	i.byName = groupByName(entries)
}

// Len returns the number of indexed elements.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

func (i *Index) replace(entries []indexEntry) {
	byName := groupByName(entries)

	i.mu.Lock()
	i.entries = entries
	i.byName = byName
	i.mu.Unlock()
}

func groupByName(entries []indexEntry) map[string][]indexEntry {
	byName := make(map[string][]indexEntry, len(entries))
	for _, entry := range entries {
		byName[entry.element.QualifiedName] = append(byName[entry.element.QualifiedName], entry)
	}
	return byName
}

// Query returns candidates ordered best first, at most MaxResults of them.
func (i *Index) Query(ctx context.Context, text string) ([]FuzzyQueryResult, error) {
	q := parseQuery(text)
	if q.typeName == "" {
		return nil, nil
	}

	i.mu.RLock()
	entries := i.entries
	opts := i.opts
	i.mu.RUnlock()

	type scored struct {
		result FuzzyQueryResult
		score  float64
	}
	var matches []scored
	for n, entry := range entries {
		if n%1024 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		m, ok := q.match(entry.name, opts.MaxDistance)
		if !ok {
			continue
		}
		matches = append(matches, scored{
			result: FuzzyQueryResult{
				QualifiedName:      entry.element.QualifiedName,
				Exact:              m.exact,
				CaseSensitiveExact: m.caseSensitiveExact,
			},
			score: m.score,
		})
	}

	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].score == matches[b].score {
			return matches[a].result.QualifiedName < matches[b].result.QualifiedName
		}
		return matches[a].score > matches[b].score
	})

	if len(matches) > opts.MaxResults {
		matches = matches[:opts.MaxResults]
	}
	results := make([]FuzzyQueryResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.result)
	}
	return results, nil
}

// FindByQualifiedName returns every element stored under name.
func (i *Index) FindByQualifiedName(ctx context.Context, name string) ([]LoadResult, error) {
	i.mu.RLock()
	entries := i.byName[name]
	i.mu.RUnlock()

	results := make([]LoadResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, LoadResult{Element: entry.element, Source: entry.source})
	}
	return results, nil
}

func newEntry(el *Element, source string) indexEntry {
	return indexEntry{element: el, source: source, name: splitQualifiedName(el.QualifiedName)}
}

func isIndexFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func indexFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat index path %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isIndexFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking index path %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func readIndexFile(path string) ([]indexEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index file %s: %w", path, err)
	}

	var file indexFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing index file %s: %w", path, err)
	}

	source := file.Source
	if source == "" {
		source = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	entries := make([]indexEntry, 0, len(file.Elements))
	for n, el := range file.Elements {
		if el == nil || strings.TrimSpace(el.QualifiedName) == "" {
			return nil, fmt.Errorf("index file %s: element %d has no qualified_name", path, n)
		}
		entries = append(entries, newEntry(el, source))
	}
	return entries, nil
}
