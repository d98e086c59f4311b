// Package gcsarchive is the Google Cloud Storage counterpart to
// pkg/store/s3archive: an illustrative cold-storage archival sink. Nothing
// in pkg/config selects between the two; callers construct one directly.
package gcsarchive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

// Sink archives envelopes to a GCS bucket, one object per event.
type Sink struct {
	client *storage.Client
	bucket string
}

// New builds a Sink using application-default credentials.
func New(ctx context.Context, bucket string) (*Sink, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsarchive: new client: %w", err)
	}
	return &Sink{client: client, bucket: bucket}, nil
}

// Persist implements store.Sink, mirroring s3archive.Sink's contract.
func (s *Sink) Persist(ctx context.Context, envelope events.Envelope, _ bizcontext.ScopeRequirement, registry *events.TypeRegistry) (store.PersistResult, error) {
	if registry != nil && !registry.Contains(envelope.EventType) {
		return store.PersistResult{Accepted: false, Reason: "event type not registered"}, nil
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return store.PersistResult{}, fmt.Errorf("gcsarchive: marshal envelope: %w", err)
	}

	object := fmt.Sprintf("%s/%s/%s.json", envelope.TenantID, envelope.EventType, envelope.EventID)
	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(body)); err != nil {
		_ = w.Close()
		return store.PersistResult{}, fmt.Errorf("gcsarchive: write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return store.PersistResult{}, fmt.Errorf("gcsarchive: close writer: %w", err)
	}

	return store.PersistResult{Accepted: true}, nil
}
