// Package s3archive is an illustrative cold-storage archival sink: it
// writes each accepted event envelope as one JSON object under the
// tenant's prefix in an S3 bucket. It is never the primary persistence
// path — pair it with pkg/store/postgres or pkg/store/sqlite and call this
// sink from a background archival loop, not from the hot dispatch path.
package s3archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/Majorsoln/BOS-sub001/pkg/bizcontext"
	"github.com/Majorsoln/BOS-sub001/pkg/events"
	"github.com/Majorsoln/BOS-sub001/pkg/store"
)

// Sink archives envelopes to an S3 bucket, one object per event.
type Sink struct {
	client *s3.Client
	bucket string
}

// New builds a Sink loading AWS credentials/region from the default SDK
// config chain.
func New(ctx context.Context, bucket string) (*Sink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3archive: load aws config: %w", err)
	}
	return &Sink{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

// Persist implements store.Sink as a cold-storage archival path: unlike
// the primary sinks, Accepted here means "archived", not "durably the
// system of record".
func (s *Sink) Persist(ctx context.Context, envelope events.Envelope, _ bizcontext.ScopeRequirement, registry *events.TypeRegistry) (store.PersistResult, error) {
	if registry != nil && !registry.Contains(envelope.EventType) {
		return store.PersistResult{Accepted: false, Reason: "event type not registered"}, nil
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		return store.PersistResult{}, fmt.Errorf("s3archive: marshal envelope: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.json", envelope.TenantID, envelope.EventType, envelope.EventID)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return store.PersistResult{}, fmt.Errorf("s3archive: put object: %w", err)
	}

	return store.PersistResult{Accepted: true}, nil
}
