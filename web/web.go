// Package web serves the browser form: two bounded numeric fields, a
// generate button, the rendered image and a download link.
package web

import (
	"net/http"
	"net/url"

	"github.com/mapsqr/maps-location-qr/location"
	"github.com/mapsqr/maps-location-qr/output"
	"github.com/mapsqr/maps-location-qr/qr"

	"github.com/gorilla/schema"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
)

// Coordinates shown when the form is first opened.
var defaultCoordinate = location.Coordinate{Latitude: 34.1232255, Longitude: 74.1240809}

var (
	errEncode = errors.New("QR code cannot be generated")
)

// Handler serves the form, the download endpoint and the JSON API.
type Handler struct {
	logger    logrus.FieldLogger
	encoder   *qr.Encoder
	formatter *location.Formatter
	metrics   *Metrics
	decoder   *schema.Decoder
	schema    *gojsonschema.Schema
	mux       *http.ServeMux
}

func New(logger logrus.FieldLogger, encoder *qr.Encoder, formatter *location.Formatter, metrics *Metrics) (*Handler, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(coordinateSchema))
	if err != nil {
		return nil, errors.Wrap(err, "loading coordinate schema")
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	h := &Handler{
		logger:    logger,
		encoder:   encoder,
		formatter: formatter,
		metrics:   metrics,
		decoder:   decoder,
		schema:    s,
		mux:       http.NewServeMux(),
	}
	h.mux.HandleFunc("/", h.form)
	h.mux.HandleFunc("/download", h.download)
	h.mux.HandleFunc("/api/qr", h.api)
	return h, nil
}

// Routes returns the handler wrapped with request IDs and access logging.
func (h *Handler) Routes() http.Handler {
	return requestMiddleware(h.logger, h.mux)
}

// coordinateForm is the shape of the form fields and the download query.
type coordinateForm struct {
	Latitude  float64 `schema:"latitude,required"`
	Longitude float64 `schema:"longitude,required"`
}

func (h *Handler) decodeCoordinate(values url.Values) (location.Coordinate, error) {
	var f coordinateForm
	if err := h.decoder.Decode(&f, values); err != nil {
		return location.Coordinate{}, errors.Wrap(location.ErrNotNumeric, err.Error())
	}
	c := location.Coordinate{Latitude: f.Latitude, Longitude: f.Longitude}
	if err := c.Validate(); err != nil {
		return location.Coordinate{}, err
	}
	return c, nil
}

// generate runs the pipeline for one request and keeps the image in memory.
func (h *Handler) generate(c location.Coordinate, source string) (string, *output.Buffer, error) {
	mapsURL := h.formatter.URL(c)
	blob, err := h.encoder.Encode(mapsURL)
	if err != nil {
		h.metrics.failure(source, reasonEncode)
		return mapsURL, nil, errors.Wrap(errEncode, err.Error())
	}
	h.metrics.generated(source)
	return mapsURL, output.NewBuffer(blob), nil
}

func downloadPath(c location.Coordinate) string {
	q := url.Values{}
	q.Set("latitude", location.FormatDegrees(c.Latitude))
	q.Set("longitude", location.FormatDegrees(c.Longitude))
	return "/download?" + q.Encode()
}
