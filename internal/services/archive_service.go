// internal/services/archive_service.go
package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/ismaelcabanas/home-inventory-backend/internal/config"
)

// ArchiveService keeps committed receipt images in S3 for later reference.
// Without AWS credentials it runs disabled and archiving is skipped.
type ArchiveService struct {
	s3Client *s3.S3
	config   *config.Config
}

func NewArchiveService(cfg *config.Config) (*ArchiveService, error) {
	if cfg.AWS.AccessKeyID == "" {
		// Archiving disabled for local development
		return &ArchiveService{config: cfg}, nil
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

	return &ArchiveService{
		s3Client: s3.New(sess),
		config:   cfg,
	}, nil
}

func (s *ArchiveService) Enabled() bool { return s.s3Client != nil }

// ArchiveReceipt uploads one receipt image, keyed by year/month and scan id.
func (s *ArchiveService) ArchiveReceipt(scanID uuid.UUID, image []byte) (string, error) {
	if s.s3Client == nil {
		return "", nil
	}

	now := time.Now()
	key := fmt.Sprintf("receipts/%d/%02d/%s.jpg", now.Year(), now.Month(), scanID)

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(image),
		ContentLength: aws.Int64(int64(len(image))),
		ContentType:   aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload receipt image: %w", err)
	}
	return key, nil
}
