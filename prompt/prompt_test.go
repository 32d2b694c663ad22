package prompt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mapsqr/maps-location-qr/location"
	"github.com/mapsqr/maps-location-qr/output"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinates(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("34.1232255\n74.1240809\n"), &out)

	c, err := p.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, location.Coordinate{Latitude: 34.1232255, Longitude: 74.1240809}, c)
	assert.Equal(t, latitudePrompt+longitudePrompt, out.String())
}

func TestCoordinates_Reprompts(t *testing.T) {
	input := strings.Join([]string{
		"north", "74", // not numeric
		"91", "0", // latitude out of range
		"0", "-180.01", // longitude out of range
		"", "", // empty
		"-33.8688", "151.2093",
	}, "\n") + "\n"
	var out bytes.Buffer
	p := New(strings.NewReader(input), &out)

	c, err := p.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, location.Coordinate{Latitude: -33.8688, Longitude: 151.2093}, c)

	have := out.String()
	assert.Equal(t, 2, strings.Count(have, "Please enter valid numbers for coordinates."))
	assert.Equal(t, 2, strings.Count(have, "Invalid coordinates!"))
	assert.Equal(t, 5, strings.Count(have, latitudePrompt))
}

func TestCoordinates_NeverReturnsInvalid(t *testing.T) {
	// Input runs out before a valid pair is given.
	p := New(strings.NewReader("100\n200\nabc\ndef\n"), &bytes.Buffer{})

	c, err := p.Coordinates()
	assert.Equal(t, ErrExit, err)
	assert.Equal(t, location.Coordinate{}, c)
}

func TestCoordinates_Exit(t *testing.T) {
	for _, word := range []string{"e", "E", "exit", " EXIT "} {
		p := New(strings.NewReader("12\n"+word+"\n"), &bytes.Buffer{})
		_, err := p.Coordinates()
		assert.Equal(t, ErrExit, err, word)
	}
}

func TestCoordinates_Preset(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader(""), &out, WithCoordinates("1.5", "-2.25"))

	c, err := p.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, location.Coordinate{Latitude: 1.5, Longitude: -2.25}, c)
	assert.Empty(t, out.String())

	// An invalid preset falls back to the prompt.
	out.Reset()
	p = New(strings.NewReader("3\n4\n"), &out, WithCoordinates("95", "0"))
	c, err = p.Coordinates()
	require.NoError(t, err)
	assert.Equal(t, location.Coordinate{Latitude: 3, Longitude: 4}, c)
	assert.Contains(t, out.String(), "Invalid coordinates!")
}

// denyFs refuses to create directories under a prefix.
type denyFs struct {
	afero.Fs
	prefix string
}

func (fs denyFs) MkdirAll(path string, perm os.FileMode) error {
	if strings.HasPrefix(path, fs.prefix) {
		return &os.PathError{Op: "mkdir", Path: path, Err: os.ErrPermission}
	}
	return fs.Fs.MkdirAll(path, perm)
}

func TestSavePath(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := output.NewFileSink(denyFs{Fs: fs, prefix: "/root"})
	var out bytes.Buffer
	p := New(strings.NewReader("/root/forbidden\n/tmp/qr/nested/dir\n"), &out)

	target, err := p.SavePath(sink)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/qr/nested/dir", output.FileName), target)

	isDir, err := afero.IsDir(fs, "/tmp/qr/nested/dir")
	require.NoError(t, err)
	assert.True(t, isDir)

	have := out.String()
	assert.Equal(t, 1, strings.Count(have, "Error creating directory:"))
	assert.Contains(t, have, "permission denied")
	assert.Contains(t, have, "Please enter a valid directory path.")
	assert.Equal(t, 2, strings.Count(have, dirPrompt))
}

func TestSavePath_Empty(t *testing.T) {
	p := New(strings.NewReader("\n"), &bytes.Buffer{})

	target, err := p.SavePath(output.NewFileSink(afero.NewMemMapFs()))
	require.NoError(t, err)
	assert.Equal(t, output.FileName, target)
}

func TestSavePath_Exit(t *testing.T) {
	p := New(strings.NewReader("e\n"), &bytes.Buffer{})

	_, err := p.SavePath(output.NewFileSink(afero.NewMemMapFs()))
	assert.Equal(t, ErrExit, err)
}

func TestSavePath_Preset(t *testing.T) {
	fs := afero.NewMemMapFs()
	sink := output.NewFileSink(denyFs{Fs: fs, prefix: "/root"})
	var out bytes.Buffer
	p := New(strings.NewReader("/srv/qr\n"), &out, WithDir("/root/qr"))

	target, err := p.SavePath(sink)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/qr", output.FileName), target)
	assert.Contains(t, out.String(), "Error creating directory:")
}
