package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appConfig "github.com/vmotion/repairshop-api/config"
	"github.com/vmotion/repairshop-api/logging"
	"github.com/vmotion/repairshop-api/utils"
)

const presignedURLExpiry = time.Hour

// S3API is the subset of the S3 client used for photos
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Presigner signs GET requests for private objects
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3PhotoStorage keeps photos in a private bucket and hands out presigned URLs
type S3PhotoStorage struct {
	client    S3API
	presigner S3Presigner
	bucket    string
	now       func() time.Time
}

// NewS3PhotoStorage wires a storage on explicit clients
func NewS3PhotoStorage(client S3API, presigner S3Presigner, bucket string) *S3PhotoStorage {
	return &S3PhotoStorage{client: client, presigner: presigner, bucket: bucket, now: time.Now}
}

// InitS3PhotoStorage builds the S3 storage from the application config
func InitS3PhotoStorage(ctx context.Context, cfg *appConfig.Config) (*S3PhotoStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig)
	return NewS3PhotoStorage(client, s3.NewPresignClient(client), cfg.AWSS3Bucket), nil
}

// Save uploads the file under orders/<generated name>
func (s *S3PhotoStorage) Save(ctx context.Context, fileHeader *multipart.FileHeader, mimeType string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logging.L().Warnw("failed to close uploaded file", "error", closeErr)
		}
	}()

	key := "orders/" + utils.StorageFilename(fileHeader.Filename, s.now())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file,
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(fileHeader.Size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return key, nil
}

// URL generates a presigned URL valid for one hour
func (s *S3PhotoStorage) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	request, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignedURLExpiry
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return request.URL, nil
}

func (s *S3PhotoStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}
