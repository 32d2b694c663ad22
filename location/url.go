package location

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultBaseURL is the map service queried by the generated links.
const DefaultBaseURL = "https://www.google.com/maps"

var defaultFormatter = &Formatter{base: DefaultBaseURL}

// Formatter builds map query URLs of the form <base>?q=<lat>,<lon>.
type Formatter struct {
	base string
}

// NewFormatter returns a formatter for the given base URL, which must be an
// absolute http(s) URL without a query string.
func NewFormatter(base string) (*Formatter, error) {
	if base == "" {
		return defaultFormatter, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, errors.Wrap(err, "parsing maps base URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("maps base URL %q must use http or https", base)
	}
	if u.Host == "" || u.RawQuery != "" || u.Fragment != "" {
		return nil, errors.Errorf("maps base URL %q must have a host and no query", base)
	}
	return &Formatter{base: strings.TrimSuffix(base, "/")}, nil
}

// URL embeds the coordinate at full precision. The comma is left unescaped so
// the link stays readable when printed.
func (f *Formatter) URL(c Coordinate) string {
	return f.base + "?q=" + c.String()
}

// MapsURL formats c with the default Google Maps template.
func MapsURL(c Coordinate) string {
	return defaultFormatter.URL(c)
}

// FormatDegrees renders v in the shortest decimal form that parses back to
// exactly v.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
