// Package audit indexes auth lifecycle events into Elasticsearch for the
// marketplace's admin dashboard. Indexing is best-effort; a failed write is
// logged by the caller and never fails the request that produced it.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/vianajose7/faaxis-auth/internal/events"
)

const Index = "auth-audit"

type Indexer struct {
	client *elasticsearch.Client
}

func NewIndexer(url, user, password string) (*Indexer, error) {
	if url == "" {
		return nil, nil
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("audit: create client: %w", err)
	}
	return &Indexer{client: client}, nil
}

func (i *Indexer) Record(ctx context.Context, e events.Event) error {
	if i == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("audit: marshal: %w", err)
	}
	res, err := i.client.Index(Index, bytes.NewReader(data),
		i.client.Index.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("audit: index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("audit: index failed: %s: %s", res.Status(), body)
	}
	return nil
}
