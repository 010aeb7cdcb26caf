package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"Cuisinade/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"
)

type awsS3 struct {
	client *s3.Client
	bucket string
	region string
	opts   Options
}

func NewAwsS3(ctx context.Context, opts Options) (ImageStore, error) {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfig("AWS_S3_REGION")
	if bucket == "" || region == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET and AWS_S3_REGION are required for the s3 storage driver")
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if key := utils.GetConfig("AWS_ACCESS_KEY"); key != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, utils.GetConfig("AWS_SECRET_KEY"), ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
		opts:   opts,
	}, nil
}

func (s *awsS3) Save(ctx context.Context, file *multipart.FileHeader, category string) (string, error) {
	return saveFileHeader(ctx, s, file, category)
}

func (s *awsS3) SaveReader(ctx context.Context, r io.Reader, filename string, category string) (string, error) {
	return store(ctx, s, s.opts, r, filename, category)
}

func (s *awsS3) write(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (s *awsS3) Delete(ctx context.Context, ref string) {
	key, err := cleanReference(ref)
	if err != nil {
		log.Warnw("refusing to delete image", "ref", ref, "error", err)
		return
	}
	// DeleteObject succeeds for keys that do not exist.
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		log.Errorw("failed to delete image", "ref", ref, "error", err)
	}
}

func (s *awsS3) PublicURL(ref string) string {
	if ref == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, ref)
}
