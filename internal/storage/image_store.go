package storage

import (
	"context"
	"fmt"
	"io"

	storage_go "github.com/supabase-community/storage-go"
)

// ImageStore uploads event banner images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
}

type SupabaseImageStore struct {
	client *storage_go.Client
	bucket string
}

func NewSupabaseImageStore(client *storage_go.Client, bucket string) ImageStore {
	return &SupabaseImageStore{
		client: client,
		bucket: bucket,
	}
}

func (s *SupabaseImageStore) Upload(ctx context.Context, path string, contentType string, data io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	upsert := true
	cacheControl := "3600"
	_, err := s.client.UploadFile(s.bucket, path, data, storage_go.FileOptions{
		ContentType:  &contentType,
		CacheControl: &cacheControl,
		Upsert:       &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", s.bucket, path, err)
	}

	return s.client.GetPublicUrl(s.bucket, path).SignedURL, nil
}
