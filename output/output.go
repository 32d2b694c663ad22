// Package output delivers encoded images: to the filesystem, to S3-compatible
// object storage, or to an in-memory buffer handed to a caller.
package output

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// FileName is the name given to every generated image.
const FileName = "my_location_qr.png"

// Sink resolves a destination for the image and writes it there.
type Sink interface {
	// Resolve prepares dir and returns the target the image will be
	// written to.
	Resolve(dir string) (string, error)
	Write(ctx context.Context, target string, data []byte) error
}

// FileSink writes images to a filesystem.
type FileSink struct {
	fs afero.Afero
}

var _ Sink = (*FileSink)(nil)

func NewFileSink(fs afero.Fs) *FileSink {
	return &FileSink{fs: afero.Afero{Fs: fs}}
}

// Resolve creates dir and any missing parents. An empty dir resolves to
// FileName in the working directory.
func (s *FileSink) Resolve(dir string) (string, error) {
	if dir == "" {
		return FileName, nil
	}
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

func (s *FileSink) Write(_ context.Context, target string, data []byte) error {
	return errors.Wrapf(s.fs.WriteFile(target, data, 0644), "writing %s", target)
}

// Switch sends s3:// destinations to an object sink and everything else to a
// file sink.
type Switch struct {
	File   Sink
	Object Sink
}

var _ Sink = (*Switch)(nil)

func (s *Switch) Resolve(dir string) (string, error) {
	sink, err := s.route(dir)
	if err != nil {
		return "", err
	}
	return sink.Resolve(dir)
}

func (s *Switch) Write(ctx context.Context, target string, data []byte) error {
	sink, err := s.route(target)
	if err != nil {
		return err
	}
	return sink.Write(ctx, target, data)
}

func (s *Switch) route(location string) (Sink, error) {
	if !IsObjectURI(location) {
		return s.File, nil
	}
	if s.Object == nil {
		return nil, errors.Errorf("object storage is not configured for %s", location)
	}
	return s.Object, nil
}

// IsObjectURI reports whether location names an S3 bucket.
func IsObjectURI(location string) bool {
	return strings.HasPrefix(strings.ToLower(location), objectScheme+"://")
}
