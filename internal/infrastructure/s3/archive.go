package s3infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/monicaDelao/brokerx/internal/domain"
)

// AuditArchive writes one immutable JSON object per audit record. Keys are
// partitioned by day so the bucket stays browsable; an If-None-Match guard
// rejects overwrites, keeping the archive write-once.
type AuditArchive struct {
	client *s3.Client
	bucket string
}

func NewAuditArchive(client *s3.Client, bucket string) *AuditArchive {
	return &AuditArchive{client: client, bucket: bucket}
}

func (a *AuditArchive) Archive(ctx context.Context, rec *domain.AuditRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	key := fmt.Sprintf("audit/%s/%s.json", rec.Timestamp.UTC().Format("2006-01-02"), rec.AuditID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		return fmt.Errorf("s3 put audit object: %w", err)
	}
	return nil
}
