package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/julianstephens/routinize/internal/constants"
)

// ErrRemoteNotFound is returned when the requested object is not in the
// bucket.
var ErrRemoteNotFound = errors.New("backup not found in bucket")

// ObjectStore is the subset of the S3 client used for backups.
type ObjectStore interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Remote copies backup files to and from an S3 bucket.
type Remote struct {
	client ObjectStore
	bucket string
}

// NewRemote builds an S3 client from the default AWS configuration chain.
func NewRemote(ctx context.Context, bucket string) (*Remote, error) {
	if bucket == "" {
		return nil, fmt.Errorf("no S3 bucket configured (set %s or pass --bucket)", constants.EnvS3Bucket)
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return NewRemoteWithClient(s3.NewFromConfig(cfg), bucket), nil
}

func NewRemoteWithClient(client ObjectStore, bucket string) *Remote {
	return &Remote{client: client, bucket: bucket}
}

// Key is the object key for a backup file name.
func Key(name string) string {
	return path.Join(constants.S3KeyPrefix, name)
}

// Push uploads a backup file and returns its object key.
func (r *Remote) Push(ctx context.Context, backupPath string) (string, error) {
	file, err := os.Open(backupPath)
	if err != nil {
		return "", fmt.Errorf("failed to open backup: %w", err)
	}
	defer file.Close()

	key := Key(filepath.Base(backupPath))
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: &r.bucket,
		Key:    &key,
		Body:   file,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}
	return key, nil
}

// Pull downloads the named backup into dir and returns the local path.
func (r *Remote) Pull(ctx context.Context, name, dir string) (string, error) {
	key := Key(name)
	res, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &r.bucket, Key: &key})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return "", fmt.Errorf("%w: %s", ErrRemoteNotFound, key)
		}
		return "", fmt.Errorf("failed to download backup: %w", err)
	}
	defer res.Body.Close()

	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	dest := filepath.Join(dir, filepath.Base(name))
	tmp := dest + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create local file: %w", err)
	}
	if _, err := io.Copy(out, res.Body); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to save backup: %w", err)
	}
	return dest, nil
}
