package generator

import (
	"bytes"
	"context"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// S3Config S3 (或 MinIO 等兼容服务) 输出配置
type S3Config struct {
	Region          string `toml:"region" mapstructure:"region" json:"region"`
	Bucket          string `toml:"bucket" mapstructure:"bucket" json:"bucket"`
	Prefix          string `toml:"prefix" mapstructure:"prefix" json:"prefix"`
	Endpoint        string `toml:"endpoint" mapstructure:"endpoint" json:"endpoint"`
	AccessKeyID     string `toml:"access_key_id" mapstructure:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key" mapstructure:"secret_access_key" json:"secret_access_key"`
	PathStyle       bool   `toml:"path_style" mapstructure:"path_style" json:"path_style"`
}

// ObjectPutter S3 客户端中 S3Sink 需要的部分
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink 写入 bucket, key 为 <prefix>/images/<n>.png 与 <prefix>/metadata/<n>.json
type S3Sink struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3Client 按配置创建 S3 客户端, 未配置访问密钥时使用默认凭证链
func NewS3Client(ctx context.Context, c S3Config) (*s3.Client, error) {
	region := c.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if c.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed on load aws config")
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = c.PathStyle
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
	}), nil
}

func NewS3Sink(client ObjectPutter, bucket, prefix string) (*S3Sink, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	return &S3Sink{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *S3Sink) WriteImage(ctx context.Context, edition int, png []byte) error {
	return s.put(ctx, imageKey(edition), png, "image/png")
}

func (s *S3Sink) WriteMetadata(ctx context.Context, edition int, meta []byte) error {
	return s.put(ctx, metadataKey(edition), meta, "application/json")
}

func (s *S3Sink) put(ctx context.Context, key string, data []byte, contentType string) error {
	if s.prefix != "" {
		key = path.Join(s.prefix, key)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.Wrapf(err, "failed on put s3 object %s", key)
	}
	return nil
}

func (s *S3Sink) Close() error {
	return nil
}
