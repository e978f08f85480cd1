package store

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaStore wraps a MinIO client for uploaded media files.
type MediaStore struct {
	client *minio.Client
	bucket string
}

func NewMediaStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MediaStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	return &MediaStore{client: client, bucket: bucket}, nil
}

// UploadResult is the tagged outcome of an upload. Business failures set
// Success=false with a human-readable Error instead of an error return.
type UploadResult struct {
	Success  bool   `json:"success"`
	Path     string `json:"path,omitempty"`
	URL      string `json:"url,omitempty"`
	FileName string `json:"file_name,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Upload stores the file under a collision-resistant name inside folder and
// returns the object's public URL. Overwriting an existing object at the
// derived path is refused.
func (s *MediaStore) Upload(ctx context.Context, folder, originalName, contentType string, size int64, r io.Reader) UploadResult {
	name := ObjectName(originalName)
	objectPath := JoinObjectPath(folder, name)

	// Refuse overwrite: the name is timestamp+random so a hit means a
	// duplicate request, not a counter to bump.
	if _, err := s.client.StatObject(ctx, s.bucket, objectPath, minio.StatObjectOptions{}); err == nil {
		return UploadResult{Success: false, Error: fmt.Sprintf("object already exists at %s", objectPath)}
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectPath, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return UploadResult{Success: false, Error: fmt.Sprintf("upload failed: %v", err)}
	}

	return UploadResult{
		Success:  true,
		Path:     objectPath,
		URL:      s.PublicURL(objectPath),
		FileName: name,
	}
}

// PublicURL resolves the public URL of an object path.
func (s *MediaStore) PublicURL(objectPath string) string {
	base := s.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", base.Scheme, base.Host, s.bucket, objectPath)
}

// Remove deletes an object.
func (s *MediaStore) Remove(ctx context.Context, objectPath string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectPath, minio.RemoveObjectOptions{})
}

// Usage sums the sizes of all objects in the bucket.
func (s *MediaStore) Usage(ctx context.Context) (totalBytes int64, objects int, err error) {
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return 0, 0, obj.Err
		}
		totalBytes += obj.Size
		objects++
	}
	return totalBytes, objects, nil
}

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ObjectName derives a collision-resistant file name from the current
// timestamp, a short random token, and the original extension.
func ObjectName(originalName string) string {
	token := make([]byte, 8)
	for i := range token {
		token[i] = tokenAlphabet[rand.Intn(len(tokenAlphabet))]
	}
	ext := strings.TrimPrefix(path.Ext(originalName), ".")
	if ext == "" {
		return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), token)
	}
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), token, ext)
}

// JoinObjectPath concatenates folder and name, collapsing duplicate path
// separators.
func JoinObjectPath(folder, name string) string {
	joined := folder + "/" + name
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return strings.TrimPrefix(joined, "/")
}
