// internal/search/mirror.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"recruitment-chat/internal/common/errors"
	"recruitment-chat/internal/common/logger"
	"recruitment-chat/internal/models"
)

// bulkChunkSize caps the documents per bulk request so a large talent pool
// does not produce a single oversized payload.
const bulkChunkSize = 500

// Mirror keeps an Elasticsearch index in sync with the enriched profile
// snapshot. The snapshot stays the source of truth; the mirror only serves
// full-text queries, so a reindex failure degrades search rather than the
// whole service.
type Mirror struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewMirror(client *elasticsearch.Client, index string, log logger.Logger) *Mirror {
	return &Mirror{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "search-mirror"}),
	}
}

// Index reports the index name the mirror writes to.
func (m *Mirror) Index() string {
	return m.index
}

// ReindexSnapshot bulk-writes every enriched profile into the mirror index,
// keyed by profile uuid so repeated rebuilds overwrite in place.
func (m *Mirror) ReindexSnapshot(ctx context.Context, snapshot *models.Snapshot) error {
	if snapshot == nil || len(snapshot.Profiles) == 0 {
		m.logger.Debug("nothing to reindex", nil)
		return nil
	}

	indexed := 0
	for start := 0; start < len(snapshot.Profiles); start += bulkChunkSize {
		end := start + bulkChunkSize
		if end > len(snapshot.Profiles) {
			end = len(snapshot.Profiles)
		}
		if err := m.bulkIndex(ctx, snapshot.Profiles[start:end]); err != nil {
			return err
		}
		indexed += end - start
	}

	m.logger.Info("reindexed profiles", map[string]interface{}{
		"index":    m.index,
		"profiles": indexed,
	})
	return nil
}

func (m *Mirror) bulkIndex(ctx context.Context, profiles []models.EnrichedProfile) error {
	var body bytes.Buffer
	for i := range profiles {
		action := map[string]interface{}{
			"index": map[string]interface{}{
				"_index": m.index,
				"_id":    profiles[i].UUID,
			},
		}
		actionLine, err := json.Marshal(action)
		if err != nil {
			return errors.Wrap(errors.ErrCodeSearchIndexFailed, errors.KindInternal, "encode bulk action", err)
		}
		docLine, err := json.Marshal(&profiles[i])
		if err != nil {
			return errors.Wrap(errors.ErrCodeSearchIndexFailed, errors.KindInternal, "encode profile document", err)
		}
		body.Write(actionLine)
		body.WriteByte('\n')
		body.Write(docLine)
		body.WriteByte('\n')
	}

	req := esapi.BulkRequest{
		Index:   m.index,
		Body:    &body,
		Refresh: "false",
	}
	res, err := req.Do(ctx, m.client)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSearchIndexFailed, errors.KindSourceUnavailable, "bulk index profiles", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.New(errors.ErrCodeSearchIndexFailed, errors.KindSourceUnavailable,
			"bulk index failed: "+res.Status())
	}

	var bulkResponse struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  struct {
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResponse); err != nil {
		return errors.Wrap(errors.ErrCodeSearchIndexFailed, errors.KindInternal, "decode bulk response", err)
	}
	if bulkResponse.Errors {
		failed := 0
		reason := ""
		for _, item := range bulkResponse.Items {
			for _, op := range item {
				if op.Status >= 300 {
					failed++
					if reason == "" {
						reason = op.Error.Reason
					}
				}
			}
		}
		return errors.New(errors.ErrCodeSearchIndexFailed, errors.KindSourceUnavailable,
			fmt.Sprintf("bulk index rejected %d documents: %s", failed, reason))
	}
	return nil
}

// DeleteIndex drops the mirror index, ignoring a missing one.
func (m *Mirror) DeleteIndex(ctx context.Context) error {
	res, err := m.client.Indices.Delete(
		[]string{m.index},
		m.client.Indices.Delete.WithContext(ctx),
		m.client.Indices.Delete.WithIgnoreUnavailable(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSearchIndexFailed, errors.KindSourceUnavailable, "delete index", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.New(errors.ErrCodeSearchIndexFailed, errors.KindSourceUnavailable,
			"delete index failed: "+res.Status())
	}
	return nil
}

// QueryResult is one page of full-text hits from the mirror index.
type QueryResult struct {
	Profiles  []models.EnrichedProfile `json:"profiles"`
	TotalHits int64                    `json:"total_hits"`
	MaxScore  float64                  `json:"max_score"`
}

// SearchProfiles runs a relevance-ranked query against the mirror. Unlike
// the snapshot's substring search this uses Elasticsearch scoring, so results
// come back by relevance rather than fit percentage.
func (m *Mirror) SearchProfiles(ctx context.Context, query string, filters models.SearchFilters, from, size int) (*QueryResult, error) {
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	if from < 0 {
		from = 0
	}

	body, err := json.Marshal(buildProfileQuery(query, filters))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSearchIndexFailed, errors.KindInternal, "encode search query", err)
	}

	req := esapi.SearchRequest{
		Index: []string{m.index},
		Body:  bytes.NewReader(body),
		From:  &from,
		Size:  &size,
	}
	res, err := req.Do(ctx, m.client)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSearchIndexFailed, errors.KindSourceUnavailable, "execute search", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New(errors.ErrCodeSearchIndexFailed, errors.KindSourceUnavailable,
			"search failed: "+res.Status())
	}

	var response struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			MaxScore *float64 `json:"max_score"`
			Hits     []struct {
				Source models.EnrichedProfile `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSearchIndexFailed, errors.KindInternal, "decode search response", err)
	}

	result := &QueryResult{
		Profiles:  make([]models.EnrichedProfile, 0, len(response.Hits.Hits)),
		TotalHits: response.Hits.Total.Value,
	}
	if response.Hits.MaxScore != nil {
		result.MaxScore = *response.Hits.MaxScore
	}
	for _, hit := range response.Hits.Hits {
		result.Profiles = append(result.Profiles, hit.Source)
	}

	m.logger.Debug("search executed", map[string]interface{}{
		"query": query,
		"hits":  strconv.FormatInt(result.TotalHits, 10),
	})
	return result, nil
}
