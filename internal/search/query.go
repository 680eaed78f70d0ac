package search

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
	"golang.org/x/text/unicode/norm"
)

// Recipes returns the ids of recipes matching q, best match first.
func (x *Index) Recipes(q string) ([]string, error) {
	return x.search(DocTypeRecipe, q)
}

// Newsletters returns the ids of newsletters matching q, best match first.
func (x *Index) Newsletters(q string) ([]string, error) {
	return x.search(DocTypeNewsletter, q)
}

func (x *Index) search(t DocType, q string) ([]string, error) {
	q = strings.TrimSpace(norm.NFC.String(q))
	if q == "" {
		return []string{}, nil
	}

	req := bleve.NewSearchRequestOptions(buildQuery(t, q), x.limit, 0, false)
	req.SortBy([]string{"-_score"})
	req.Fields = []string{"id"}

	x.mu.RLock()
	res, err := x.index.Search(req)
	x.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if id, ok := hit.Fields["id"].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// buildQuery matches q against title, author, and body, restricted to
// documents of type t.
func buildQuery(t DocType, q string) query.Query {
	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	authorMatch := bleve.NewMatchQuery(q)
	authorMatch.SetField("author")
	authorMatch.SetBoost(1.5)

	bodyMatch := bleve.NewMatchQuery(q)
	bodyMatch.SetField("body")

	text := []query.Query{titleMatch, authorMatch, bodyMatch}

	// Typo tolerance and autocomplete on single-word queries
	if !strings.ContainsAny(q, " \t") {
		lower := strings.ToLower(q)

		fuzzy := bleve.NewFuzzyQuery(lower)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)
		text = append(text, fuzzy)

		if len(lower) >= 2 {
			prefix := bleve.NewPrefixQuery(lower)
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			text = append(text, prefix)
		}
	}

	typeQuery := bleve.NewTermQuery(string(t))
	typeQuery.SetField("type")

	return bleve.NewConjunctionQuery(bleve.NewDisjunctionQuery(text...), typeQuery)
}
