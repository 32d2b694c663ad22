// Package prompt asks for the output directory and the coordinates on a
// terminal, re-prompting until the answers are usable.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mapsqr/maps-location-qr/location"
	"github.com/mapsqr/maps-location-qr/output"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrExit is returned when the user asks to leave or the input ends.
var ErrExit = errors.New("exit requested")

// Words accepted as the exit command, compared case-insensitively.
var exitWords = []string{"e", "exit"}

const (
	dirPrompt       = "Enter the directory path to save the QR code (or press Enter for current directory, 'exit' to quit): "
	latitudePrompt  = "Enter latitude (e.g., 34.1232255): "
	longitudePrompt = "Enter longitude (e.g., 74.1240809): "
)

type Prompter struct {
	logger  logrus.FieldLogger
	scanner *bufio.Scanner
	out     io.Writer

	dir      *string
	lat, lon *string
}

type Option func(*Prompter)

// WithDir answers the directory prompt once. A rejected answer falls back to
// asking the user.
func WithDir(dir string) Option {
	return func(p *Prompter) {
		p.dir = &dir
	}
}

// WithCoordinates answers the coordinate prompts once. A rejected pair falls
// back to asking the user.
func WithCoordinates(lat, lon string) Option {
	return func(p *Prompter) {
		p.lat, p.lon = &lat, &lon
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Prompter) {
		p.logger = logger
	}
}

func New(in io.Reader, out io.Writer, opts ...Option) *Prompter {
	p := &Prompter{
		logger:  logrus.StandardLogger(),
		scanner: bufio.NewScanner(in),
		out:     out,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SavePath asks for a directory until sink resolves it, and returns the
// target the image should be written to.
func (p *Prompter) SavePath(sink output.Sink) (string, error) {
	for {
		var dir string
		if p.dir != nil {
			dir, p.dir = strings.TrimSpace(*p.dir), nil
		} else {
			line, err := p.ask(dirPrompt)
			if err != nil {
				return "", err
			}
			dir = line
		}

		target, err := sink.Resolve(dir)
		if err == nil {
			return target, nil
		}
		p.logger.WithField("dir", dir).WithError(err).Debug("Directory rejected")
		fmt.Fprintf(p.out, "Error creating directory: %v\n", err)
		fmt.Fprintln(p.out, "Please enter a valid directory path.")
	}
}

// Coordinates asks for latitude and longitude until both parse and are in
// range. It never returns an invalid pair.
func (p *Prompter) Coordinates() (location.Coordinate, error) {
	for {
		var lat, lon string
		if p.lat != nil {
			lat, lon = *p.lat, *p.lon
			p.lat, p.lon = nil, nil
		} else {
			var err error
			if lat, err = p.ask(latitudePrompt); err != nil {
				return location.Coordinate{}, err
			}
			if lon, err = p.ask(longitudePrompt); err != nil {
				return location.Coordinate{}, err
			}
		}

		c, err := location.Parse(lat, lon)
		if err == nil {
			return c, nil
		}
		p.logger.WithError(err).Debug("Coordinates rejected")
		fmt.Fprintln(p.out, location.Message(err))
	}
}

// ask prints question and returns the trimmed answer, or ErrExit.
func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.scanner.Scan() {
		fmt.Fprintln(p.out)
		if err := p.scanner.Err(); err != nil {
			return "", errors.Wrap(err, "reading input")
		}
		return "", ErrExit
	}
	answer := strings.TrimSpace(p.scanner.Text())
	if isExit(answer) {
		return "", ErrExit
	}
	return answer, nil
}

func isExit(answer string) bool {
	for _, word := range exitWords {
		if strings.EqualFold(answer, word) {
			return true
		}
	}
	return false
}
