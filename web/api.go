package web

import (
	"encoding/base64"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/mapsqr/maps-location-qr/location"

	"github.com/xeipuuv/gojsonschema"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 12

const coordinateSchema = `{
  "$schema": "http://json-schema.org/draft-04/schema#",
  "type": "object",
  "required": ["latitude", "longitude"],
  "properties": {
    "latitude": {"type": "number", "minimum": -90, "maximum": 90},
    "longitude": {"type": "number", "minimum": -180, "maximum": 180}
  }
}`

type apiResponse struct {
	URL   string `json:"url"`
	Image string `json:"image"`
}

// api answers POST /api/qr with the URL and the base64 PNG.
func (h *Handler) api(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, h.logger, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, r, h.logger, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	result, err := h.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		h.metrics.failure(sourceAPI, reasonInvalid)
		writeError(w, r, h.logger, http.StatusBadRequest, "malformed JSON document")
		return
	}
	if !result.Valid() {
		h.metrics.failure(sourceAPI, reasonInvalid)
		issues := make([]string, 0, len(result.Errors()))
		for _, issue := range result.Errors() {
			issues = append(issues, issue.String())
		}
		writeError(w, r, h.logger, http.StatusBadRequest, strings.Join(issues, "; "))
		return
	}

	var c location.Coordinate
	if err := json.Unmarshal(body, &c); err != nil {
		h.metrics.failure(sourceAPI, reasonInvalid)
		writeError(w, r, h.logger, http.StatusBadRequest, "malformed JSON document")
		return
	}

	mapsURL, buf, err := h.generate(c, sourceAPI)
	if err != nil {
		h.logger.WithError(err).WithField("url", mapsURL).Error("Generation failed")
		writeError(w, r, h.logger, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, r, h.logger, http.StatusOK, apiResponse{
		URL:   mapsURL,
		Image: base64.StdEncoding.EncodeToString(buf.Bytes()),
	})
}
