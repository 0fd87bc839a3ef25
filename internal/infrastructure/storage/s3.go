package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/jhoicas/hrms-api/internal/application/ports"
	"github.com/jhoicas/hrms-api/internal/domain"
	"github.com/jhoicas/hrms-api/pkg/config"
)

var _ ports.FileStorage = (*S3)(nil)

// S3 almacenamiento en un bucket S3 o compatible (MinIO, B2) si se define endpoint.
type S3 struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3 construye el cliente con credenciales estáticas si vienen en la configuración.
func NewS3(ctx context.Context, cfg config.StorageConfig) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET es obligatorio con STORAGE_DRIVER=s3")
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cargar configuración AWS: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	if cfg.S3Endpoint != "" {
		baseURL = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}
	return &S3{client: client, bucket: cfg.S3Bucket, baseURL: baseURL}, nil
}

// Put sube el objeto y devuelve su URL.
func (s *S3) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	k := cleanKey(key)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(k),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("subir objeto %s: %w", k, err)
	}
	return s.baseURL + "/" + k, nil
}

// Open descarga el objeto.
func (s *S3) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(cleanKey(key)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, domain.NewError(domain.ErrNotFound, "archivo no encontrado")
		}
		return nil, fmt.Errorf("descargar objeto: %w", err)
	}
	return out.Body, nil
}

// Delete borra el objeto.
func (s *S3) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(cleanKey(key)),
	})
	if err != nil {
		return fmt.Errorf("borrar objeto: %w", err)
	}
	return nil
}

// New elige el backend según STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (ports.FileStorage, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3(ctx, cfg)
	case "", "local":
		return NewLocal(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER desconocido: %s", cfg.Driver)
	}
}
