//go:build s3

package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store keeps pending uploads in an S3 bucket under a key prefix.
// Build with -tags s3. The caller owns the client:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := upload.NewS3Store(s3.NewFromConfig(cfg), "my-bucket", "pending/", 50<<20)
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	max    int64
}

// NewS3Store returns a store writing to bucket under prefix. maxSize of
// zero means no per-file limit.
func NewS3Store(client *s3.Client, bucket, prefix string, maxSize int64) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix, max: maxSize}
}

const (
	metaName        = "upload-name"
	metaContentType = "upload-content-type"
)

// Save implements Store.
func (s *S3Store) Save(ctx context.Context, name, contentType string, size int64, r io.Reader) (string, error) {
	if s.max > 0 && size > s.max {
		return "", ErrTooLarge
	}

	var buf bytes.Buffer
	src := r
	if s.max > 0 {
		src = io.LimitReader(r, s.max+1)
	}
	n, err := io.Copy(&buf, src)
	if err != nil {
		return "", err
	}
	if s.max > 0 && n > s.max {
		return "", ErrTooLarge
	}

	id := newID()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + id),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			metaName:        name,
			metaContentType: contentType,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload: s3 put: %w", err)
	}
	return id, nil
}

// Claim implements Store. The object is deleted once the returned
// reader has been fully consumed and closed.
func (s *S3Store) Claim(ctx context.Context, id string) (*File, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	key := s.prefix + id

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, ErrNotFound
	}

	name := id
	if v, ok := out.Metadata[metaName]; ok && v != "" {
		name = v
	}
	contentType := "application/octet-stream"
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	var size int64
	if out.ContentLength != nil {
		size = *out.ContentLength
	}

	return &File{
		ID:          id,
		Name:        name,
		ContentType: contentType,
		Size:        size,
		Content: &deleteObjectOnClose{
			ReadCloser: out.Body,
			delete: func() {
				s.client.DeleteObject(context.WithoutCancel(ctx), &s3.DeleteObjectInput{
					Bucket: aws.String(s.bucket),
					Key:    aws.String(key),
				})
			},
		},
	}, nil
}

// Cleanup implements Store.
func (s *S3Store) Cleanup(ctx context.Context, maxAge time.Duration) error {
	cutoff := time.Now().Add(-maxAge)

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

type deleteObjectOnClose struct {
	io.ReadCloser
	delete func()
}

func (d *deleteObjectOnClose) Close() error {
	err := d.ReadCloser.Close()
	d.delete()
	return err
}
