package mirror

import (
	"bytes"
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
)

type Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Bucket  string `mapstructure:"bucket"`
	Region  string `mapstructure:"region"`
	Prefix  string `mapstructure:"prefix"`
}

// S3Mirror keeps an off-network copy of every stored blob in an S3 bucket,
// keyed by blob id. The decentralized store stays the source of truth; the
// mirror only serves disaster recovery and analytics.
type S3Mirror struct {
	uploader *manager.Uploader
	config   Config
}

func New(ctx context.Context, config Config) (*S3Mirror, error) {
	if config.Bucket == "" {
		return nil, errors.New("blob.mirror.bucket config is required")
	}
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't load aws user config")
	}
	s3Client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if config.Region != "" {
			o.Region = config.Region
		}
	})
	return &S3Mirror{
		uploader: manager.NewUploader(s3Client),
		config:   config,
	}, nil
}

// Upload writes one blob copy. A nil receiver is a no-op so callers don't
// have to branch on whether mirroring is configured.
func (m *S3Mirror) Upload(ctx context.Context, blobId, contentType string, data []byte) error {
	if m == nil {
		return nil
	}
	_, err := m.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.config.Bucket),
		Key:         aws.String(path.Join(m.config.Prefix, blobId)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.Wrapf(err, "can't mirror blob %q to s3", blobId)
	}
	return nil
}
