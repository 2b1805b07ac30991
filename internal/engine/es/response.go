package es

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kailas-cloud/entdex/internal/engine"
)

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore float64 `json:"max_score"`
		Hits     []struct {
			ID        string              `json:"_id"`
			Score     float64             `json:"_score"`
			Source    map[string]any      `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}

// parseSearchResponse decodes a search result. The item type and
// entity id are recovered from the document id, with the stored
// entity-id field as fallback for the numeric part.
func parseSearchResponse(body io.Reader) (*engine.Response, error) {
	var decoded searchResponse
	if err := json.NewDecoder(body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	response := &engine.Response{
		Total:    decoded.Hits.Total.Value,
		MaxScore: decoded.Hits.MaxScore,
		Hits:     make([]engine.Hit, 0, len(decoded.Hits.Hits)),
	}

	for _, hit := range decoded.Hits.Hits {
		docType, entityID, ok := splitDocumentID(hit.ID)
		if !ok {
			continue
		}
		if entityID == 0 {
			entityID = sourceEntityID(hit.Source)
		}

		response.Hits = append(response.Hits, engine.Hit{
			Type:       docType,
			EntityID:   entityID,
			Score:      hit.Score,
			Highlights: hit.Highlight,
		})
	}

	return response, nil
}

func splitDocumentID(id string) (docType string, entityID int64, ok bool) {
	sep := strings.LastIndex(id, "--")
	if sep <= 0 {
		return "", 0, false
	}
	docType = id[:sep]
	entityID, err := strconv.ParseInt(id[sep+2:], 10, 64)
	if err != nil {
		return docType, 0, true
	}
	return docType, entityID, true
}

func sourceEntityID(source map[string]any) int64 {
	switch value := source[engine.EntityIDField].(type) {
	case float64:
		return int64(value)
	case json.Number:
		id, _ := value.Int64()
		return id
	default:
		return 0
	}
}
