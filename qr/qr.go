// Package qr renders payloads as QR code PNG images and reads them back.
//
// Symbol construction and error correction are done by go-qrcode. This
// package only decides the symbol version and level and rasterizes the module
// matrix with the configured module size and quiet zone.
package qr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const (
	MinVersion = 1
	MaxVersion = 40
)

var (
	ErrPayloadTooLarge = errors.New("payload exceeds symbol capacity")
	ErrEmptyPayload    = errors.New("payload is empty")
	ErrSerialize       = errors.New("image cannot be serialized")
)

var levels = map[string]qrcode.RecoveryLevel{
	"low":     qrcode.Low,
	"medium":  qrcode.Medium,
	"high":    qrcode.High,
	"highest": qrcode.Highest,
}

// Config controls symbol selection and rendering.
type Config struct {
	// Version is the smallest symbol version used.
	Version int

	// Level is one of "low", "medium", "high" or "highest".
	Level string

	// ModuleSize is the width in pixels of each module.
	ModuleSize int

	// Border is the width of the quiet zone, in modules.
	Border int

	// Fit lets the encoder grow past Version when the payload needs it.
	Fit bool
}

// DefaultConfig is version 1, low error correction, 10px modules and the
// standard four module quiet zone.
func DefaultConfig() Config {
	return Config{
		Version:    1,
		Level:      "low",
		ModuleSize: 10,
		Border:     4,
		Fit:        true,
	}
}

func (c Config) Validate() error {
	if c.Version < MinVersion || c.Version > MaxVersion {
		return errors.Errorf("version %d out of range %d-%d", c.Version, MinVersion, MaxVersion)
	}
	if _, ok := levels[strings.ToLower(c.Level)]; !ok {
		return errors.Errorf("unknown error correction level %q", c.Level)
	}
	if c.ModuleSize < 1 {
		return errors.Errorf("module size must be positive, got %d", c.ModuleSize)
	}
	if c.Border < 0 {
		return errors.Errorf("border cannot be negative, got %d", c.Border)
	}
	return nil
}

// Encoder turns payloads into PNG images.
type Encoder struct {
	config Config
	level  qrcode.RecoveryLevel
}

func NewEncoder(config Config) (*Encoder, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid QR configuration")
	}
	return &Encoder{
		config: config,
		level:  levels[strings.ToLower(config.Level)],
	}, nil
}

// Encode returns the PNG encoding of payload. Errors have ErrEmptyPayload,
// ErrPayloadTooLarge or ErrSerialize as their cause.
func (e *Encoder) Encode(payload string) ([]byte, error) {
	code, err := e.symbol(payload)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, e.rasterize(code.Bitmap())); err != nil {
		return nil, errors.Wrap(ErrSerialize, err.Error())
	}
	return buf.Bytes(), nil
}

// symbol picks the version. Without Fit the configured version is forced.
func (e *Encoder) symbol(payload string) (*qrcode.QRCode, error) {
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	var (
		code *qrcode.QRCode
		err  error
	)
	if e.config.Fit {
		code, err = qrcode.New(payload, e.level)
		if err != nil {
			return nil, errors.Wrapf(ErrPayloadTooLarge, "%d bytes: %v", len(payload), err)
		}
		if code.VersionNumber < e.config.Version {
			code, err = qrcode.NewWithForcedVersion(payload, e.config.Version, e.level)
		}
	} else {
		code, err = qrcode.NewWithForcedVersion(payload, e.config.Version, e.level)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrPayloadTooLarge, "%d bytes at version %d: %v", len(payload), e.config.Version, err)
	}

	// The quiet zone is drawn by rasterize.
	code.DisableBorder = true
	return code, nil
}

// rasterize draws black modules on white. bitmap[y][x] is true when the
// module at (x, y) is dark.
func (e *Encoder) rasterize(bitmap [][]bool) image.Image {
	var (
		scale  = e.config.ModuleSize
		border = e.config.Border
		size   = (len(bitmap) + 2*border) * scale
	)

	// Index 0 is white so the zero value of Pix is the background.
	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{color.White, color.Black})
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			x0, y0 := (x+border)*scale, (y+border)*scale
			for py := y0; py < y0+scale; py++ {
				offset := img.PixOffset(x0, py)
				for px := 0; px < scale; px++ {
					img.Pix[offset+px] = 1
				}
			}
		}
	}
	return img
}
