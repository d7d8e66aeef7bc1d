// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/Stvolll/scooter-wraps-backend/internal/config"
)

// ObjectStore is the gateway to durable asset storage. Writes go
// through a time-boxed credential; reads resolve to a public URL.
type ObjectStore interface {
	Configured() bool
	IssueWriteCredential(key, contentType string, ttl time.Duration) (string, error)
	Upload(ctx context.Context, credential, contentType string, body []byte) error
	PublicURL(key string) string
	DeleteObject(ctx context.Context, key string) error
}

type StorageService struct {
	s3Client   *s3.S3
	httpClient *http.Client
	config     *config.Config
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	svc := &StorageService{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		config:     cfg,
	}

	if cfg.AWS.AccessKeyID == "" {
		// No S3 credentials; the service reports itself unconfigured
		// and batch ingestion refuses to start.
		return svc, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWS.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	svc.s3Client = s3.New(sess)
	return svc, nil
}

func (s *StorageService) Configured() bool {
	return s.s3Client != nil && s.config.AWS.S3Bucket != ""
}

// IssueWriteCredential returns a presigned PUT URL for the given key,
// valid for ttl.
func (s *StorageService) IssueWriteCredential(key, contentType string, ttl time.Duration) (string, error) {
	if !s.Configured() {
		return "", ErrMisconfiguredStorage
	}

	req, _ := s.s3Client.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(s.config.AWS.S3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})

	url, err := req.Presign(ttl)
	if err != nil {
		return "", fmt.Errorf("failed to presign write credential: %w", err)
	}

	return url, nil
}

// Upload transfers the raw bytes against a previously issued write
// credential. The transfer fails once the credential expires.
func (s *StorageService) Upload(ctx context.Context, credential, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, credential, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upload transfer failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload rejected with status %d", resp.StatusCode)
	}

	return nil
}

// PublicURL resolves a stored key to its durable public URL, preferring
// the CDN domain when one is configured.
func (s *StorageService) PublicURL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", s.config.AWS.CloudFrontURL, key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func (s *StorageService) DeleteObject(ctx context.Context, key string) error {
	if !s.Configured() {
		return ErrMisconfiguredStorage
	}

	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}
