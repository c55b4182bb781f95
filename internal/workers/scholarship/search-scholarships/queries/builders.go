// internal/workers/scholarship/search-scholarships/queries/builders.go
package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
)

// SearchQuery describes one search request against the scholarship index.
type SearchQuery struct {
	Index         string
	QueryType     string
	Filters       map[string]interface{}
	ScholarshipID string
	Category      string
	Pagination    struct {
		From int
		Size int
	}
}

// BuildQuery builds an Elasticsearch search request based on query type and filters.
func BuildQuery(sq SearchQuery) (*esapi.SearchRequest, error) {
	if sq.Index == "" {
		return nil, ErrMissingIndex
	}

	var queryBody map[string]interface{}

	switch sq.QueryType {
	case "scholarship_index":
		queryBody = buildScholarshipSearchQuery(sq)
	case "related_scholarships":
		queryBody = buildRelatedScholarshipsQuery(sq)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, sq.QueryType)
	}

	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{sq.Index},
		Body:  strings.NewReader(string(body)),
		From:  &sq.Pagination.From,
		Size:  &sq.Pagination.Size,
	}

	return &req, nil
}

func buildScholarshipSearchQuery(sq SearchQuery) map[string]interface{} {
	boolQuery := make(map[string]interface{})
	mustClauses := []interface{}{}
	filterClauses := []interface{}{}

	if keywords, ok := sq.Filters["keywords"].(string); ok && keywords != "" {
		mustClauses = append(mustClauses, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  keywords,
				"fields": []string{"name^3", "description^2", "category", "provider"},
				"type":   "best_fields",
			},
		})
	}

	if category, ok := sq.Filters["category"].(string); ok && category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": category},
		})
	} else if sq.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": sq.Category},
		})
	}

	if level, ok := sq.Filters["educationLevel"].(string); ok && level != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"eligible_education_levels": level},
		})
	}

	if country, ok := sq.Filters["country"].(string); ok && country != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"eligible_countries": country},
					},
					map[string]interface{}{
						"match": map[string]interface{}{"location": country},
					},
				},
				"minimum_should_match": 1,
			},
		})
	}

	// Only scholarships whose deadline has not passed, optionally bounded
	// by an explicit range.
	if deadlineRange, ok := sq.Filters["deadlineRange"].(map[string]interface{}); ok {
		bounds := map[string]interface{}{}
		if after, ok := deadlineRange["after"].(string); ok && after != "" {
			bounds["gte"] = after
		}
		if before, ok := deadlineRange["before"].(string); ok && before != "" {
			bounds["lte"] = before
		}
		if len(bounds) > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{"deadline": bounds},
			})
		}
	} else if openOnly, ok := sq.Filters["openOnly"].(bool); ok && openOnly {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"deadline": map[string]interface{}{"gte": "now/d"},
			},
		})
	}

	if amountRange, ok := sq.Filters["amountRange"].(map[string]interface{}); ok {
		if minVal := toFloat(amountRange["min"]); minVal > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{
					"amount_max": map[string]interface{}{"gte": minVal},
				},
			})
		}
		if maxVal := toFloat(amountRange["max"]); maxVal > 0 {
			filterClauses = append(filterClauses, map[string]interface{}{
				"range": map[string]interface{}{
					"amount_min": map[string]interface{}{"lte": maxVal},
				},
			})
		}
	}

	if len(mustClauses) == 0 {
		mustClauses = append(mustClauses, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery["must"] = mustClauses
	if len(filterClauses) > 0 {
		boolQuery["filter"] = filterClauses
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": boolQuery,
		},
	}

	if sortBy, ok := sq.Filters["sortBy"].(string); ok {
		switch sortBy {
		case "deadline":
			query["sort"] = []map[string]interface{}{{"deadline": "asc"}}
		case "amount":
			query["sort"] = []map[string]interface{}{{"amount_max": "desc"}}
		case "name":
			query["sort"] = []map[string]interface{}{{"name": "asc"}}
		}
	}

	return query
}

func buildRelatedScholarshipsQuery(sq SearchQuery) map[string]interface{} {
	if sq.ScholarshipID == "" {
		return map[string]interface{}{
			"query": map[string]interface{}{
				"match_none": map[string]interface{}{},
			},
		}
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"more_like_this": map[string]interface{}{
				"fields": []string{"name", "description", "category"},
				"like": []map[string]interface{}{
					{"_index": sq.Index, "_id": sq.ScholarshipID},
				},
				"min_term_freq":   1,
				"max_query_terms": 12,
				"min_doc_freq":    1,
				"min_word_length": 3,
			},
		},
	}
}

func toFloat(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
