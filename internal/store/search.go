// internal/store/search.go
package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"matching-engine/internal/common/errors"
	"matching-engine/internal/common/logger"
	"matching-engine/internal/ingest"
	"matching-engine/internal/matching"
)

// SearchQuery describes a candidate search against the search index.
type SearchQuery struct {
	Keywords string   `json:"keywords,omitempty"`
	Skills   []string `json:"skills,omitempty"`
	City     string   `json:"city,omitempty"`
	Urgency  string   `json:"urgency,omitempty"`
	From     int      `json:"from,omitempty"`
	Size     int      `json:"size,omitempty"`
}

// SearchResult is the page of candidates a search produced, with any
// hits that failed ingestion reported as skips.
type SearchResult struct {
	Candidates []*matching.Candidate
	Skipped    []ingest.Skipped
	TotalHits  int
}

// SearchStore queries the Elasticsearch candidate index.
type SearchStore struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewSearchStore(client *elasticsearch.Client, index string, log logger.Logger) *SearchStore {
	return &SearchStore{client: client, index: index, logger: log}
}

// SearchCandidates runs the query and pushes each hit's source document
// through the ingest boundary.
func (s *SearchStore) SearchCandidates(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	body, _ := json.Marshal(BuildCandidateQuery(q))

	size := q.Size
	if size <= 0 {
		size = 50
	}
	from := q.From

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(body)),
		From:  &from,
		Size:  &size,
	}

	res, err := req.Do(ctx, s.client)
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewSearchTimeoutError()
		}
		return nil, errors.NewSearchQueryFailedError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.NewSearchQueryFailedError(
			stderrors.New("search returned " + res.Status()))
	}

	var envelope struct {
		Hits struct {
			Total struct {
				Value int `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, errors.NewSearchQueryFailedError(err)
	}

	raws := make([]json.RawMessage, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		raws = append(raws, hit.Source)
	}
	candidates, skipped := ingest.CandidateBatch(raws)

	s.logger.Debug("candidate search completed", map[string]interface{}{
		"totalHits": envelope.Hits.Total.Value,
		"returned":  len(candidates),
		"skipped":   len(skipped),
	})

	return &SearchResult{
		Candidates: candidates,
		Skipped:    skipped,
		TotalHits:  envelope.Hits.Total.Value,
	}, nil
}

// BuildCandidateQuery builds the bool query for a candidate search.
// Keywords score, the rest filter.
func BuildCandidateQuery(q SearchQuery) map[string]interface{} {
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if q.Keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q.Keywords,
				"fields": []string{"description^2", "requiredSkills^3", "city"},
				"type":   "best_fields",
			},
		})
	}

	if len(q.Skills) > 0 {
		terms := make([]string, 0, len(q.Skills))
		for _, skill := range q.Skills {
			skill = strings.ToLower(strings.TrimSpace(skill))
			if skill != "" {
				terms = append(terms, skill)
			}
		}
		if len(terms) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"terms": map[string]interface{}{"requiredSkills": terms},
			})
		}
	}

	if q.City != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"city": q.City},
		})
	}

	if q.Urgency != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"urgency": q.Urgency},
		})
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": mustClauses}
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
		"sort": []map[string]interface{}{{"createdAt": "desc"}},
	}
}
