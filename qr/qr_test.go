package qr

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleURL = "https://www.google.com/maps?q=34.1232255,74.1240809"

func newEncoder(t *testing.T, config Config) *Encoder {
	t.Helper()
	e, err := NewEncoder(config)
	require.NoError(t, err)
	return e
}

func TestEncoder_RoundTrip(t *testing.T) {
	e := newEncoder(t, DefaultConfig())

	for _, payload := range []string{
		exampleURL,
		"https://www.google.com/maps?q=-89.99999999999999,-179.12345678901234",
		"https://www.google.com/maps?q=0,0",
	} {
		blob, err := e.Encode(payload)
		require.NoError(t, err)
		require.NotEmpty(t, blob)

		have, err := Decode(bytes.NewReader(blob))
		require.NoError(t, err)
		assert.Equal(t, payload, have)
	}
}

func TestEncoder_Geometry(t *testing.T) {
	e := newEncoder(t, Config{Version: 1, Level: "low", ModuleSize: 10, Border: 4})

	blob, err := e.Encode("hi")
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(blob))
	require.NoError(t, err)
	// Version 1 is 21 modules wide, plus four modules of quiet zone each side.
	assert.Equal(t, (21+8)*10, cfg.Width)
	assert.Equal(t, cfg.Width, cfg.Height)

	img, err := png.Decode(bytes.NewReader(blob))
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b}, "quiet zone must be white")
	r, g, b, _ = img.At(40, 40).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b}, "finder pattern corner must be black")
}

func TestEncoder_NoBorder(t *testing.T) {
	e := newEncoder(t, Config{Version: 1, Level: "low", ModuleSize: 1, Border: 0})

	blob, err := e.Encode("hi")
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(blob))
	require.NoError(t, err)
	assert.Equal(t, 21, cfg.Width)
}

func TestEncoder_Fit(t *testing.T) {
	blob, err := newEncoder(t, DefaultConfig()).Encode(exampleURL)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(blob))
	require.NoError(t, err)
	modules := cfg.Width/10 - 8
	assert.Zero(t, cfg.Width%10)
	assert.True(t, modules > 21, "the example URL does not fit version 1")
	assert.Zero(t, (modules-21)%4, "%d is not a QR symbol size", modules)
}

func TestEncoder_ForcedVersionOverflow(t *testing.T) {
	config := DefaultConfig()
	config.Fit = false
	e := newEncoder(t, config)

	blob, err := e.Encode(exampleURL)
	assert.Nil(t, blob)
	assert.Equal(t, ErrPayloadTooLarge, errors.Cause(err))

	blob, err = e.Encode("short")
	assert.NoError(t, err)
	assert.NotEmpty(t, blob)
}

func TestEncoder_Errors(t *testing.T) {
	e := newEncoder(t, DefaultConfig())

	_, err := e.Encode("")
	assert.Equal(t, ErrEmptyPayload, errors.Cause(err))

	_, err = e.Encode(strings.Repeat("a", 3000))
	assert.Equal(t, ErrPayloadTooLarge, errors.Cause(err))
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	testCases := map[string]func(*Config){
		"version zero":    func(c *Config) { c.Version = 0 },
		"version 41":      func(c *Config) { c.Version = 41 },
		"unknown level":   func(c *Config) { c.Level = "extreme" },
		"no module size":  func(c *Config) { c.ModuleSize = 0 },
		"negative border": func(c *Config) { c.Border = -1 },
	}
	for name, mutate := range testCases {
		c := DefaultConfig()
		mutate(&c)
		assert.Error(t, c.Validate(), name)

		_, err := NewEncoder(c)
		assert.Error(t, err, name)
	}

	c := DefaultConfig()
	c.Level = "HIGH"
	assert.NoError(t, c.Validate())
}

func TestDecode_NotAnImage(t *testing.T) {
	_, err := Decode(strings.NewReader("not a png"))
	assert.Error(t, err)
}
