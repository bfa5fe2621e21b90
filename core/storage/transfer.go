package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ErrBucketNotFound is returned when the configured bucket does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

func checkBucket(ctx context.Context, client Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	return nil
}

// Fetch downloads object into dest unless dest already exists. It reports
// whether a download happened.
func Fetch(ctx context.Context, client Client, bucket, object, dest string) (bool, error) {
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	}
	if err := checkBucket(ctx, client, bucket); err != nil {
		return false, err
	}

	obj, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return false, fmt.Errorf("failed to get object %s: %w", object, err)
	}
	defer obj.Close()

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".fetch_*")
	if err != nil {
		return false, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, obj); err != nil {
		tmp.Close()
		return false, fmt.Errorf("failed to download %s: %w", object, err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return false, fmt.Errorf("failed to move download into place: %w", err)
	}
	return true, nil
}

// Upload uploads the file at path as object.
func Upload(ctx context.Context, client Client, bucket, object, path string) error {
	if err := checkBucket(ctx, client, bucket); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(filepath.Ext(path))}
	if opts.ContentType == "" {
		opts.ContentType = "application/octet-stream"
	}
	if _, err := client.PutObject(ctx, bucket, object, file, info.Size(), opts); err != nil {
		return fmt.Errorf("failed to upload %s: %w", object, err)
	}
	return nil
}

// List returns the keys under prefix whose extension is one of extensions.
// With no extensions every key is returned.
func List(ctx context.Context, client Client, bucket, prefix string, extensions ...string) ([]string, error) {
	if err := checkBucket(ctx, client, bucket); err != nil {
		return nil, err
	}

	var keys []string
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, obj.Err)
		}
		ext := strings.ToLower(filepath.Ext(obj.Key))
		if len(extensions) == 0 || slices.Contains(extensions, ext) {
			keys = append(keys, obj.Key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// ObjectName joins a prefix and a file name into an object key.
func ObjectName(prefix, name string) string {
	name = filepath.ToSlash(filepath.Base(name))
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
