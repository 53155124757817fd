// Package doc answers Javadoc lookups: it queries an element index, decides
// whether a result is unambiguous and otherwise asks the user to choose.
package doc

import "context"

// FuzzyQueryResult is one candidate for a query. Values are comparable and
// equal candidates are treated as duplicates.
type FuzzyQueryResult struct {
	QualifiedName      string
	Exact              bool
	CaseSensitiveExact bool
}

// Tag is a Javadoc block tag such as @param or @since.
type Tag struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Element is a documented type, method, constructor or field.
type Element struct {
	QualifiedName string `yaml:"qualified_name" json:"qualified_name"`
	Kind          string `yaml:"kind" json:"kind"`
	Declaration   string `yaml:"declaration" json:"declaration"`
	Description   string `yaml:"description" json:"description"`
	Tags          []Tag  `yaml:"tags" json:"tags"`
	URL           string `yaml:"url" json:"url"`
}

// LoadResult is an element together with the index source it came from.
type LoadResult struct {
	Element *Element
	Source  string
}

// QueryAPI finds candidates for free-form query text.
type QueryAPI interface {
	Query(ctx context.Context, text string) ([]FuzzyQueryResult, error)
}

// ElementLoader fetches full elements by qualified name.
type ElementLoader interface {
	FindByQualifiedName(ctx context.Context, name string) ([]LoadResult, error)
}
