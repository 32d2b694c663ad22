package output

import (
	"bytes"
	"encoding/base64"
	"io"
)

// Buffer holds an image in memory for callers that present it themselves.
type Buffer struct {
	data []byte
}

func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Name is the file name offered when the image is downloaded.
func (b *Buffer) Name() string { return FileName }

func (b *Buffer) Len() int { return len(b.data) }

func (b *Buffer) Bytes() []byte { return b.data }

// Reader returns a new reader positioned at the start of the image.
func (b *Buffer) Reader() io.ReadSeeker {
	return bytes.NewReader(b.data)
}

// DataURI embeds the image in a data: URI suitable for an <img> src.
func (b *Buffer) DataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(b.data)
}
