package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Resolver uploads raw image payloads to an S3 bucket and hands back the
// public object URL.
type S3Resolver struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Resolver loads the ambient AWS config and constructs the resolver.
func NewS3Resolver(ctx context.Context, bucket, baseURL string) (*S3Resolver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Resolver{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Resolve uploads the payload and returns the stored URL. A payload that is
// already a remote URL is accepted as-is.
func (r *S3Resolver) Resolve(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", ErrUploadFailed
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw, nil
	}

	data, contentType, err := decodeDataURI(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	key := "messages/" + uuid.NewString()
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if r.baseURL != "" {
		return r.baseURL + "/" + key, nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", r.bucket, key), nil
}

// decodeDataURI splits a "data:<type>;base64,<payload>" URI into bytes and
// content type. Bare base64 is treated as image/jpeg.
func decodeDataURI(raw string) ([]byte, string, error) {
	contentType := "image/jpeg"
	payload := raw
	if strings.HasPrefix(raw, "data:") {
		head, rest, ok := strings.Cut(raw[len("data:"):], ",")
		if !ok {
			return nil, "", fmt.Errorf("malformed data uri")
		}
		payload = rest
		if mediaType := strings.TrimSuffix(head, ";base64"); mediaType != "" {
			contentType = mediaType
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	return data, contentType, nil
}
