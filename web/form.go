package web

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/mapsqr/maps-location-qr/location"

	"github.com/pkg/errors"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Google Maps Location QR Code Generator</title>
</head>
<body>
<h1>Google Maps Location QR Code Generator</h1>
<form method="post" action="/">
<label for="latitude">Latitude</label>
<input type="number" id="latitude" name="latitude" min="{{.MinLatitude}}" max="{{.MaxLatitude}}" step="any" value="{{.Latitude}}" required>
<label for="longitude">Longitude</label>
<input type="number" id="longitude" name="longitude" min="{{.MinLongitude}}" max="{{.MaxLongitude}}" step="any" value="{{.Longitude}}" required>
<button type="submit">Generate QR Code</button>
</form>
{{- if .Error}}
<p class="error">{{.Error}}</p>
{{- end}}
{{- if .Image}}
<img src="{{.Image}}" alt="QR code for {{.URL}}">
<p>Generated URL: <code>{{.URL}}</code></p>
<a href="{{.Download}}" download="{{.FileName}}">Download QR Code</a>
{{- end}}
</body>
</html>
`))

type pageData struct {
	MinLatitude, MaxLatitude   float64
	MinLongitude, MaxLongitude float64

	Latitude  string
	Longitude string

	Error    string
	URL      string
	Image    template.URL
	Download string
	FileName string
}

func newPageData(latitude, longitude string) *pageData {
	return &pageData{
		MinLatitude:  location.MinLatitude,
		MaxLatitude:  location.MaxLatitude,
		MinLongitude: location.MinLongitude,
		MaxLongitude: location.MaxLongitude,
		Latitude:     latitude,
		Longitude:    longitude,
	}
}

// form renders the page on GET and generates the image on POST.
func (h *Handler) form(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(w, r, http.StatusOK, newPageData(
			location.FormatDegrees(defaultCoordinate.Latitude),
			location.FormatDegrees(defaultCoordinate.Longitude)))
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	data := newPageData(r.PostForm.Get("latitude"), r.PostForm.Get("longitude"))

	c, err := h.decodeCoordinate(r.PostForm)
	if err != nil {
		h.metrics.failure(sourceForm, reasonInvalid)
		data.Error = location.Message(err)
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	mapsURL, buf, err := h.generate(c, sourceForm)
	data.URL = mapsURL
	if err != nil {
		h.logger.WithError(err).WithField("url", mapsURL).Error("Generation failed")
		data.Error = fmt.Sprintf("Error with QR code data: %v", err)
		h.render(w, r, http.StatusInternalServerError, data)
		return
	}

	data.Image = template.URL(buf.DataURI())
	data.Download = downloadPath(c)
	data.FileName = buf.Name()
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Execute(w, data); err != nil {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("Template rendering failed")
	}
}

// download serves the PNG as an attachment.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c, err := h.decodeCoordinate(r.URL.Query())
	if err != nil {
		h.metrics.failure(sourceDownload, reasonInvalid)
		http.Error(w, location.Message(err), http.StatusBadRequest)
		return
	}

	_, buf, err := h.generate(c, sourceDownload)
	if err != nil {
		h.logger.WithError(err).Error("Generation failed")
		http.Error(w, errors.Cause(err).Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", buf.Name()))
	http.ServeContent(w, r, buf.Name(), time.Time{}, buf.Reader())
}
