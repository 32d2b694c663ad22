package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

const binary = "maps-location-qr"

// Available reports whether the binary can be found in $PATH.
func Available() bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

type Runner struct {
	command string
	dir     string
	args    []string
	env     []string
	stdin   string
	debug   bool
}

func Generate(args ...string) *Runner {
	return &Runner{command: "generate", args: args}
}

func Server(args ...string) *Runner {
	return &Runner{command: "server", args: args}
}

func Decode(args ...string) *Runner {
	return &Runner{command: "decode", args: args}
}

func (b *Runner) WithEnv(env []string) *Runner {
	b.env = env
	return b
}

func (b *Runner) WithDir(dir string) *Runner {
	b.dir = dir
	return b
}

// WithInput feeds the given lines to the prompts.
func (b *Runner) WithInput(lines ...string) *Runner {
	b.stdin = strings.Join(lines, "\n") + "\n"
	return b
}

func (b *Runner) WithDebug(debug bool) *Runner {
	b.debug = debug
	return b
}

// Run waits for the command and returns its standard output.
func (b *Runner) Run(t *testing.T) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	cmd := b.exec(context.Background(), &stdout)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		return stdout.String(), errors.Wrapf(err, "%s %s", binary, b.command)
	}

	if b.debug {
		fmt.Println("Ran in ", time.Since(start))
	}
	return stdout.String(), nil
}

func (b *Runner) RunOrFail(t *testing.T) string {
	t.Helper()
	out, err := b.Run(t)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func (b *Runner) RunBackground(t *testing.T) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	cmd := b.exec(ctx, nil)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		t.Fatalf("%s %s: %v", binary, b.command, err)
	}

	done := make(chan struct{})

	go func() {
		_ = cmd.Wait()
		if b.debug {
			fmt.Println("Ran in ", time.Since(start))
		}
		done <- struct{}{}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (b *Runner) exec(ctx context.Context, stdout io.Writer) *exec.Cmd {
	args := append([]string{b.command}, b.args...)

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Env = append(removeAppEnvs(os.Environ()), b.env...)
	if b.dir != "" {
		cmd.Dir = b.dir
	}
	cmd.Stdin = strings.NewReader(b.stdin)

	// If the test is killed by a timeout, go test will wait for
	// os.Stderr and os.Stdout to close as a result.
	//
	// However, the `cmd` will still run in the background
	// and hold those descriptors open.
	// As a result, go test will hang forever.
	//
	// Avoid that by wrapping stderr and stdout, breaking the short
	// circuit and forcing cmd.Run to use another pipe and goroutine
	// to pass along stderr and stdout.
	// See https://github.com/golang/go/issues/23019
	var sinks []io.Writer
	if stdout != nil {
		sinks = append(sinks, stdout)
	}
	if b.debug {
		sinks = append(sinks, os.Stdout)
	}
	cmd.Stdout = struct{ io.Writer }{io.MultiWriter(sinks...)}
	cmd.Stderr = ioutil.Discard
	if b.debug {
		cmd.Stderr = struct{ io.Writer }{os.Stderr}
	}

	return cmd
}

func removeAppEnvs(env []string) []string {
	var clean []string

	for _, value := range env {
		if !strings.HasPrefix(value, "MAPS_LOCATION_QR_") {
			clean = append(clean, value)
		}
	}

	return clean
}
