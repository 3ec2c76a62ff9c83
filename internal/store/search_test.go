// internal/store/search_test.go
package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCandidateQuery_MatchAllWhenEmpty(t *testing.T) {
	query := BuildCandidateQuery(SearchQuery{})

	boolQuery := boolClause(t, query)
	must := boolQuery["must"].([]interface{})
	require.Len(t, must, 1)
	assert.Contains(t, must[0], "match_all")
	assert.NotContains(t, boolQuery, "filter")
}

func TestBuildCandidateQuery_KeywordsScore(t *testing.T) {
	query := BuildCandidateQuery(SearchQuery{Keywords: "deep clean"})

	must := boolClause(t, query)["must"].([]interface{})
	require.Len(t, must, 1)
	multiMatch := must[0].(map[string]interface{})["multi_match"].(map[string]interface{})
	assert.Equal(t, "deep clean", multiMatch["query"])
}

func TestBuildCandidateQuery_Filters(t *testing.T) {
	query := BuildCandidateQuery(SearchQuery{
		Skills:  []string{"Cleaning", " ", "plumbing"},
		City:    "New York",
		Urgency: "high",
	})

	filters := boolClause(t, query)["filter"].([]interface{})
	require.Len(t, filters, 3)

	terms := filters[0].(map[string]interface{})["terms"].(map[string]interface{})
	assert.Equal(t, []string{"cleaning", "plumbing"}, terms["requiredSkills"], "skills are normalized before filtering")

	cityTerm := filters[1].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "New York", cityTerm["city"])

	urgencyTerm := filters[2].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "high", urgencyTerm["urgency"])
}

func TestBuildCandidateQuery_SortsNewestFirst(t *testing.T) {
	query := BuildCandidateQuery(SearchQuery{})

	sorts, ok := query["sort"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, sorts, 1)
	assert.Equal(t, "desc", sorts[0]["createdAt"])
}

func boolClause(t *testing.T, query map[string]interface{}) map[string]interface{} {
	t.Helper()
	q, ok := query["query"].(map[string]interface{})
	require.True(t, ok)
	b, ok := q["bool"].(map[string]interface{})
	require.True(t, ok)
	return b
}
