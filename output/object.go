package output

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/mapsqr/maps-location-qr/s3"

	"github.com/pkg/errors"
)

const objectScheme = "s3"

// ObjectSink uploads images to S3-compatible object storage. Destinations are
// written as s3://bucket/prefix.
type ObjectSink struct {
	storage s3.ObjectStorage
}

var _ Sink = (*ObjectSink)(nil)

func NewObjectSink(storage s3.ObjectStorage) *ObjectSink {
	return &ObjectSink{storage: storage}
}

// Resolve checks that dir names a bucket and returns the object URI. Nothing
// is created remotely until Write.
func (s *ObjectSink) Resolve(dir string) (string, error) {
	u, err := url.Parse(dir)
	if err != nil {
		return "", errors.Wrap(err, "invalid object storage location")
	}
	if !strings.EqualFold(u.Scheme, objectScheme) || u.Host == "" {
		return "", errors.Errorf("%q is not an s3://bucket/prefix location", dir)
	}
	prefix := strings.Trim(u.Path, "/")
	if prefix == "" {
		return objectScheme + "://" + u.Host + "/" + FileName, nil
	}
	return objectScheme + "://" + u.Host + "/" + prefix + "/" + FileName, nil
}

func (s *ObjectSink) Write(ctx context.Context, target string, data []byte) error {
	return errors.Wrapf(s.storage.Upload(ctx, bytes.NewReader(data), target), "uploading %s", target)
}
