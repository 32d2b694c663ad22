package integration

import (
	"flag"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mapsqr/maps-location-qr/integration/runner"
)

const exampleURL = "https://www.google.com/maps?q=34.1232255,74.1240809"

var (
	flagDebug = flag.Bool("debug", false, "")
)

func skip(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	if !runner.Available() {
		t.Skip("maps-location-qr is not installed")
	}
}

func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "maps-location-qr-integration")
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// TestGenerate confirms that the prompt flow writes a decodable image into a
// nested directory it has to create.
func TestGenerate(t *testing.T) {
	skip(t)

	dir := tempDir(t)
	defer os.RemoveAll(dir)
	target := filepath.Join(dir, "nested", "deeper")

	out := runner.Generate().
		WithDebug(*flagDebug).
		WithInput(target, "not-a-number", "0", "34.1232255", "74.1240809").
		RunOrFail(t)

	if !strings.Contains(out, "Please enter valid numbers for coordinates.") {
		t.Errorf("invalid input was not reported: %s", out)
	}
	path := filepath.Join(target, "my_location_qr.png")
	if !strings.Contains(out, fmt.Sprintf("QR Code generated and saved as '%s'", path)) {
		t.Errorf("success was not reported: %s", out)
	}

	payload := runner.Decode("-f", path).WithDebug(*flagDebug).RunOrFail(t)
	if have := strings.TrimSpace(payload); have != exampleURL {
		t.Errorf("want %s, got %s", exampleURL, have)
	}
}

func TestGenerate_Exit(t *testing.T) {
	skip(t)

	dir := tempDir(t)
	defer os.RemoveAll(dir)

	out := runner.Generate().WithDir(dir).WithDebug(*flagDebug).WithInput("e").RunOrFail(t)

	if !strings.Contains(out, "Exiting the application...") {
		t.Errorf("exit was not acknowledged: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "my_location_qr.png")); !os.IsNotExist(err) {
		t.Errorf("no image expected after exit, stat returned %v", err)
	}
}

// TestServer starts the browser form and downloads an image from it.
func TestServer(t *testing.T) {
	skip(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	stop := runner.Server("--addr", addr).WithDebug(*flagDebug).RunBackground(t)
	defer stop()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get("http://" + addr + "/download?latitude=34.1232255&longitude=74.1240809")
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server did not come up: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if have, want := resp.Header.Get("Content-Disposition"), `attachment; filename="my_location_qr.png"`; have != want {
		t.Errorf("want %s, got %s", want, have)
	}
}
