package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/mauv0809/cue-league/internal/config"
)

var _ Uploader = (*presigner)(nil)

// New builds an Uploader from the S3 settings. Static credentials are used when
// an access key is configured, otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg config.S3Config) (Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	return NewFromConfig(awsCfg, cfg.Bucket, cfg.Endpoint), nil
}

// NewFromConfig builds an Uploader from an already resolved AWS config. A
// non-empty endpoint switches to path-style addressing for S3 compatible stores.
func NewFromConfig(awsCfg aws.Config, bucket, endpoint string) Uploader {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &presigner{
		client: s3.NewPresignClient(client),
		bucket: bucket,
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

func (p *presigner) PresignProfilePicture(ctx context.Context, userID, fileName, contentType string) (*Upload, error) {
	if userID == "" || fileName == "" || contentType == "" {
		return nil, fmt.Errorf("%w: userId, fileName and contentType are required", ErrMissingParameter)
	}

	key := p.objectKey(userID, fileName)
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(UploadExpiry))
	if err != nil {
		log.Error("Failed to presign upload", "error", err, "key", key)
		return nil, fmt.Errorf("failed to presign upload: %w", err)
	}

	log.Debug("Presigned profile picture upload", "userID", userID, "key", key)
	return &Upload{URL: req.URL, Key: key, ExpiresAt: p.now().Add(UploadExpiry)}, nil
}

// objectKey keeps user supplied names out of the key except as a slug.
func (p *presigner) objectKey(userID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	name := slug.Make(strings.TrimSuffix(fileName, path.Ext(fileName)))
	if name == "" {
		name = "upload"
	}
	return fmt.Sprintf("users/%s/profile-pictures/%s-%s%s", slug.Make(userID), p.newID(), name, ext)
}
