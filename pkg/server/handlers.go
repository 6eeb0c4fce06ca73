package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/watertower/pkg/buildinfo"
	"github.com/matzehuels/watertower/pkg/errors"
	"github.com/matzehuels/watertower/pkg/io"
	"github.com/matzehuels/watertower/pkg/observability"
	"github.com/matzehuels/watertower/pkg/pipeline"
	"github.com/matzehuels/watertower/pkg/render/sink"
)

const maxBodyBytes = 1 << 20

// analyzeRequest is the POST /v1/analyze body.
type analyzeRequest struct {
	// Heights is a pointer so an explicit empty array is told apart from
	// an absent field.
	Heights   *[]int `json:"heights"`
	MaxHeight int    `json:"max_height,omitempty"`
	Preset    string `json:"preset,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(buildinfo.Get())
}

func (s *Server) handleAnalyzePost(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "content type %q is not supported, send application/json", ct))
			return
		}
	}

	var req analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	opts := pipeline.Options{
		MaxHeight: req.MaxHeight,
		Preset:    req.Preset,
		Refresh:   req.Refresh,
	}
	if req.Heights != nil {
		if len(*req.Heights) == 0 {
			s.writeError(w, r, errEmptyHeightmap())
			return
		}
		opts.Heights = *req.Heights
	}
	s.analyze(w, r, opts)
}

func (s *Server) handleAnalyzeGet(w http.ResponseWriter, r *http.Request) {
	opts, err := sourceOptions(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.analyze(w, r, opts)
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := pipeline.Options{Random: true}
	var err error
	if opts.Seed, err = queryUint(q, "seed"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Width, err = queryInt(q, "width"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.MaxHeight, err = queryInt(q, "max_height"); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.analyze(w, r, opts)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := sink.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	opts, err := sourceOptions(q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	opts.Style = q.Get("style")
	if opts.CellSize, err = queryInt(q, "cell_size"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Caption, err = queryBool(q, "caption"); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, result.CacheInfo.RenderHit)
	w.Header().Set("Content-Type", sink.ContentType(format))
	_, _ = w.Write(result.Artifacts[format])
}

// analyze runs opts through the pipeline and writes the JSON result.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	opts.Formats = []string{sink.FormatJSON}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	setCacheHeader(w, result.CacheInfo.AnalyzeHit)
	w.Header().Set("Content-Type", sink.ContentType(sink.FormatJSON))
	_, _ = w.Write(result.Artifacts[sink.FormatJSON])
}

// sourceOptions reads heights, preset, max_height and refresh from q.
func sourceOptions(q url.Values) (pipeline.Options, error) {
	var opts pipeline.Options
	var err error
	if q.Has("heights") {
		raw := q.Get("heights")
		if strings.TrimSpace(raw) == "" {
			return opts, errEmptyHeightmap()
		}
		if opts.Heights, err = io.ParseHeights(raw); err != nil {
			return opts, err
		}
	}
	opts.Preset = q.Get("preset")
	if opts.MaxHeight, err = queryInt(q, "max_height"); err != nil {
		return opts, err
	}
	if opts.Refresh, err = queryBool(q, "refresh"); err != nil {
		return opts, err
	}
	return opts, nil
}

// errEmptyHeightmap rejects a heights field that is present but holds no
// columns; it is never replaced by the default skyline.
func errEmptyHeightmap() error {
	return errors.New(errors.ErrCodeInvalidConfiguration, "heightmap must have at least one column")
}

func queryInt(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: %q is not an integer", key, raw)
	}
	return v, nil
}

func queryUint(q url.Values, key string) (uint64, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: %q is not an unsigned integer", key, raw)
	}
	return v, nil
}

func queryBool(q url.Values, key string) (bool, error) {
	raw := q.Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: %q is not a boolean", key, raw)
	}
	return v, nil
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
		msg = "internal error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Code: code, Message: msg}})
}
