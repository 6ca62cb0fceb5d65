package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"slotbook/config"
	"slotbook/infras/otel"
	"slotbook/shared/constant"
)

const (
	otelAttrFileName = "file_name"
	otelAttrBucket   = "bucket"
)

// ObjectPutter is the subset of the S3 client used for uploads.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3 interface {
	Ready() bool
	UploadFileBytes(ctx context.Context, directory, fileName, contentType string, fileData []byte) (url string, err error)
}

type s3Impl struct {
	client ObjectPutter
	config *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) Ready() bool {
	return svc.client != nil && svc.config.External.S3.BucketName != ""
}

func (svc *s3Impl) UploadFileBytes(ctx context.Context, directory, fileName, contentType string, fileData []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFileBytes")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !svc.Ready() {
		return constant.Empty, fmt.Errorf("object storage is not configured")
	}

	bucketName := svc.config.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrFileName: fileName,
		otelAttrBucket:   bucketName,
	})

	objectKey := path.Join(directory, fileName)
	fileReader := bytes.NewReader(fileData)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          fileReader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(fileReader.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.publicURL(bucketName, objectKey), nil
}

func (svc *s3Impl) publicURL(bucketName, objectKey string) string {
	if domain := strings.TrimSuffix(svc.config.External.S3.PublicDomain, "/"); domain != "" {
		return fmt.Sprintf("%s/%s", domain, objectKey)
	}

	endpoint := strings.TrimSuffix(svc.config.External.S3.APIEndpoint, "/")

	return fmt.Sprintf("%s/%s/%s", endpoint, bucketName, objectKey)
}

// NewWithClient wires an existing client, mostly for tests.
func NewWithClient(config *config.Config, client ObjectPutter, otel otel.Otel) S3 {
	return &s3Impl{
		client: client,
		config: config,
		otel:   otel,
	}
}

func New(config *config.Config, otel otel.Otel) S3 {
	s3Config := config.External.S3
	if s3Config.BucketName == "" || s3Config.APIEndpoint == "" {
		log.Warn().Msg("No S3 bucket configured, invite uploads disabled")

		return NewWithClient(config, nil, otel)
	}

	staticProvider := credentials.NewStaticCredentialsProvider(
		s3Config.AccessKeyID,
		s3Config.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")

		return NewWithClient(config, nil, otel)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s3Config.APIEndpoint)
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return NewWithClient(config, s3Client, otel)
}
