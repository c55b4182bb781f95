// internal/workers/scholarship/search-scholarships/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

type QueryResult struct {
	Data      []map[string]interface{}
	TotalHits int64
	MaxScore  float64
	Took      int64
}

func Execute(ctx context.Context, esClient *elasticsearch.Client, sq SearchQuery) (*QueryResult, error) {
	req, err := BuildQuery(sq)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	hits, ok := r["hits"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("malformed search response: missing hits")
	}

	var total float64
	if t, ok := hits["total"].(map[string]interface{}); ok {
		total, _ = t["value"].(float64)
	}
	maxScore := 0.0
	if ms, ok := hits["max_score"].(float64); ok {
		maxScore = ms
	}

	var data []map[string]interface{}
	if hitList, ok := hits["hits"].([]interface{}); ok {
		for _, hit := range hitList {
			h, ok := hit.(map[string]interface{})
			if !ok {
				continue
			}
			source, ok := h["_source"].(map[string]interface{})
			if !ok {
				continue
			}
			// Carry identity and relevance for downstream ranking
			if id, ok := h["_id"].(string); ok {
				source["id"] = id
			}
			if score, ok := h["_score"].(float64); ok {
				source["searchScore"] = score
			}
			data = append(data, source)
		}
	}

	return &QueryResult{
		Data:      data,
		TotalHits: int64(total),
		MaxScore:  maxScore,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}
