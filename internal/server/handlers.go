package server

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/masonry/pkg/buildinfo"
	merrors "github.com/matzehuels/masonry/pkg/errors"
	mio "github.com/matzehuels/masonry/pkg/io"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/pipeline"
)

// layoutResponse is the body of POST /v1/layout.
type layoutResponse struct {
	SceneHash string         `json:"scene_hash"`
	Cached    bool           `json:"cached"`
	Layout    masonry.Layout `json:"layout"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"build":   buildinfo.Short(),
	})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	scene, err := s.readScene(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	l, hash, hit, err := s.runner.LayoutWithCacheInfo(r.Context(), scene, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("X-Cache", cacheHeader(hit))
	s.writeJSON(w, http.StatusOK, layoutResponse{SceneHash: hash, Cached: hit, Layout: l})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	scene, err := s.readScene(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), scene, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Cache", cacheHeader(result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit))
	w.Header().Set("X-Scene-Hash", result.SceneHash)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, merrors.New(merrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

// readScene decodes the request body as a scene. The format follows the
// Content-Type: TOML for application/toml or text/toml, JSON otherwise.
func (s *Server) readScene(w http.ResponseWriter, r *http.Request) (*mio.Scene, error) {
	body := http.MaxBytesReader(w, r.Body, s.maxBody)
	defer body.Close()

	format := mio.FormatJSON
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil {
		switch mt {
		case "application/toml", "text/toml", "application/x-toml":
			format = mio.FormatTOML
		}
	}

	scene, err := mio.ReadScene(body, format)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, merrors.Wrap(merrors.ErrCodeTooLarge, err, "scene exceeds %d bytes", s.maxBody)
		}
		return nil, err
	}
	return scene, nil
}

// optionsFromQuery reads layout overrides and render options from the
// query string.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	var opts pipeline.Options

	floats := []struct {
		name string
		set  func(float64)
	}{
		{"column_width", func(v float64) { opts.ColumnWidth = v }},
		{"column_gap", func(v float64) { opts.ColumnGap = &v }},
		{"row_gap", func(v float64) { opts.RowGap = &v }},
	}
	for _, f := range floats {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return opts, merrors.New(merrors.ErrCodeInvalidInput, "%s: %q is not a number", f.name, raw)
		}
		f.set(v)
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"guides", &opts.Guides},
		{"flow", &opts.Flow},
		{"no_labels", &opts.NoLabels},
		{"refresh", &opts.Refresh},
	}
	for _, b := range bools {
		raw := q.Get(b.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, merrors.New(merrors.ErrCodeInvalidInput, "%s: %q is not a boolean", b.name, raw)
		}
		*b.dst = v
	}

	opts.Style = q.Get("style")
	return opts, nil
}

// statusFor maps an error to the HTTP status reported to the client.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}
	switch merrors.GetCode(err) {
	case merrors.ErrCodeInvalidConfiguration, merrors.ErrCodeInvalidInput,
		merrors.ErrCodeInvalidFormat, merrors.ErrCodeInvalidStyle,
		merrors.ErrCodeInvalidSelector:
		return http.StatusBadRequest
	case merrors.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	case merrors.ErrCodeNotFound:
		return http.StatusNotFound
	case merrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	case merrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case merrors.ErrCodeHost:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "err", err)
	}

	s.writeJSON(w, status, newErrorResponse(r, err, status))
}

// newErrorResponse builds the error body. Uncoded server errors are
// reported as internal without their message.
func newErrorResponse(r *http.Request, err error, status int) errorResponse {
	if status == http.StatusInternalServerError && merrors.GetCode(err) == "" {
		err = merrors.New(merrors.ErrCodeInternal, "internal error")
	}
	return errorResponse{
		Error:     merrors.UserMessage(err),
		Code:      string(merrors.GetCode(err)),
		RequestID: middleware.GetReqID(r.Context()),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
