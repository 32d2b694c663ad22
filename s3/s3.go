package s3

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/pkg/errors"
)

// ObjectStorage is a S3-compatible storage interface.
type ObjectStorage interface {
	Upload(ctx context.Context, r io.ReadSeeker, URI string) error
}

// ObjectStorageImpl is our implementation of the ObjectStorage interface.
type ObjectStorageImpl struct {
	client s3iface.S3API
}

var _ ObjectStorage = (*ObjectStorageImpl)(nil)

// New returns a pointer to a new ObjectStorageImpl.
func New(sess *session.Session) *ObjectStorageImpl {
	return &ObjectStorageImpl{client: s3.New(sess)}
}

// Upload stores the contents of r under the given s3://bucket/key URI. Images
// are small so a single PutObject is enough.
func (s *ObjectStorageImpl) Upload(ctx context.Context, r io.ReadSeeker, URI string) error {
	bucket, key, err := getBucketAndKey(URI)
	if err != nil {
		return err
	}
	if bucket == "" || key == "" {
		return errors.Errorf("URI %q has no bucket or key", URI)
	}
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType(key)),
	})
	return err
}

func getBucketAndKey(URI string) (bucket string, key string, err error) {
	u, err := url.Parse(URI)
	if err != nil {
		return "", "", err
	}
	return u.Hostname(), strings.TrimPrefix(u.Path, "/"), nil
}

func contentType(key string) string {
	if strings.EqualFold(path.Ext(key), ".png") {
		return "image/png"
	}
	return "application/octet-stream"
}
