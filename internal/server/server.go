package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/lmittmann/tint"

	"github.com/kiesman99/photokit/internal/api"
	"github.com/kiesman99/photokit/internal/background"
	"github.com/kiesman99/photokit/internal/cache"
	"github.com/kiesman99/photokit/internal/compress"
	"github.com/kiesman99/photokit/internal/density"
	"github.com/kiesman99/photokit/internal/merge"
	"github.com/kiesman99/photokit/internal/pdfdoc"
	"github.com/kiesman99/photokit/internal/photo"
)

// DefaultMaxUpload bounds request bodies when no limit is configured.
const DefaultMaxUpload = 32 << 20

// Server implements the ServerInterface from the generated API
type Server struct {
	startTime time.Time
	version   string
	remover   background.Remover
	cache     *cache.DiskCache
	jpegli    bool
	maxUpload int64
}

// Option configures a Server.
type Option func(*Server)

// WithRemover enables the background removal endpoint.
func WithRemover(r background.Remover) Option {
	return func(s *Server) { s.remover = r }
}

// WithCache caches resize and dpi results.
func WithCache(c *cache.DiskCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithJpegli encodes JPEG output with jpegli.
func WithJpegli(enabled bool) Option {
	return func(s *Server) { s.jpegli = enabled }
}

// WithMaxUpload bounds request bodies to n bytes.
func WithMaxUpload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

// NewServer creates a new server instance
func NewServer(version string, opts ...Option) *Server {
	s := &Server{
		startTime: time.Now(),
		version:   version,
		maxUpload: DefaultMaxUpload,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetHealth implements the health check endpoint
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	uptime := int(time.Since(s.startTime).Seconds())
	removal := s.remover != nil

	response := api.HealthResponse{
		Status:            api.Healthy,
		Timestamp:         time.Now(),
		Uptime:            &uptime,
		Version:           &s.version,
		BackgroundRemoval: &removal,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("error encoding health response", tint.Err(err))
	}
}

// cachedResize is the cache entry for a resize result.
type cachedResize struct {
	Data      []byte       `json:"data"`
	Format    photo.Format `json:"format"`
	Quality   float64      `json:"quality"`
	Scale     float64      `json:"scale"`
	Converged bool         `json:"converged"`
}

// ResizeImage compresses the request body to approximately target_kb.
func (s *Server) ResizeImage(w http.ResponseWriter, r *http.Request, params api.ResizeImageParams) {
	requestID := requestIDFrom(r)

	format, err := outputFormat(params.Format, photo.FormatJPEG)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	data, err := s.readImage(w, r)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}

	targetKB := float64(params.TargetKb)
	key := cache.Key(data, "resize", strconv.FormatFloat(targetKB, 'f', -1, 64), format.String(), strconv.FormatBool(s.jpegli))
	var entry cachedResize
	if s.lookup(key, &entry) {
		s.writeResize(w, requestID, &entry, true)
		return
	}

	session := photo.NewSession()
	if err := session.Load(r.Context(), data); err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	enc, err := compress.NewEncoder(format, s.jpegli)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	res, err := compress.Compress(r.Context(), session.Image, compress.Options{
		TargetKB: targetKB,
		Encoder:  enc,
		Profile:  compress.Direct,
	})
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	session.SetOutput(res.Data, res.Format)

	entry = cachedResize{Data: res.Data, Format: res.Format, Quality: res.Quality, Scale: res.Scale, Converged: res.Converged}
	s.store(key, &entry)
	s.writeResize(w, requestID, &entry, false)
}

func (s *Server) writeResize(w http.ResponseWriter, requestID string, e *cachedResize, hit bool) {
	h := w.Header()
	h.Set("X-Quality", strconv.FormatFloat(e.Quality, 'f', 4, 64))
	h.Set("X-Scale", strconv.FormatFloat(e.Scale, 'f', 2, 64))
	h.Set("X-Size-KB", strconv.FormatFloat(float64(len(e.Data))/1024, 'f', 1, 64))
	h.Set("X-Converged", strconv.FormatBool(e.Converged))
	if hit {
		h.Set("X-Cache", "HIT")
	}
	writeBlob(w, requestID, e.Data, e.Format.MIMEType())
}

// SetDensity re-encodes the request body with density metadata.
func (s *Server) SetDensity(w http.ResponseWriter, r *http.Request, params api.SetDensityParams) {
	requestID := requestIDFrom(r)

	format, err := outputFormat(params.Format, photo.FormatPNG)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	rescale := true
	if params.Rescale != nil {
		rescale = *params.Rescale
	}
	data, err := s.readImage(w, r)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}

	key := cache.Key(data, "dpi", strconv.Itoa(params.Dpi), format.String(), strconv.FormatBool(rescale), strconv.FormatBool(s.jpegli))
	if s.cache != nil {
		if hit, err := s.cache.Find(key); err != nil {
			slog.Warn("cache lookup failed", tint.Err(err), "request_id", requestID)
		} else if hit != nil {
			w.Header().Set("X-Cache", "HIT")
			writeBlob(w, requestID, hit, format.MIMEType())
			return
		}
	}

	session := photo.NewSession()
	if err := session.Load(r.Context(), data); err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	enc, err := compress.NewEncoder(format, s.jpegli)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	res, err := density.Apply(r.Context(), session.Image, density.Options{
		DPI:     params.Dpi,
		Format:  format,
		Rescale: rescale,
		Encoder: enc,
	})
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	session.SetOutput(res.Data, res.Format)

	if s.cache != nil {
		if err := s.cache.Write(key, res.Data); err != nil {
			slog.Warn("cache write failed", tint.Err(err), "request_id", requestID)
		}
	}
	writeBlob(w, requestID, res.Data, res.Format.MIMEType())
}

// MergeImages combines the "first" and "second" form files.
func (s *Server) MergeImages(w http.ResponseWriter, r *http.Request, params api.MergeImagesParams) {
	requestID := requestIDFrom(r)

	opts := merge.Options{Mode: merge.ModeHorizontal, Opacity: merge.DefaultOpacity}
	if params.Mode != nil {
		mode, err := merge.ParseMode(string(*params.Mode))
		if err != nil {
			s.handleError(w, r, err, requestID)
			return
		}
		opts.Mode = mode
	}
	if params.Opacity != nil {
		opts.Opacity = float64(*params.Opacity)
	}

	if err := s.parseMultipart(w, r); err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	first, err := s.formImage(r, "first", true)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	second, err := s.formImage(r, "second", true)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}

	out, err := merge.Merge(first, second, opts)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	s.writePNG(w, r, requestID, out)
}

// RemoveBackground forwards the request body to the configured removal service.
func (s *Server) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)

	if s.remover == nil {
		s.handleError(w, r, background.ErrNoRemover, requestID)
		return
	}
	data, err := s.readImage(w, r)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	if photo.DetectFormat(data) == photo.FormatUnknown {
		s.handleError(w, r, photo.Invalid("image", photo.ErrUnsupportedFormat), requestID)
		return
	}

	out, err := s.remover.RemoveBackground(r.Context(), data)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	if f := photo.DetectFormat(out); f != photo.FormatPNG {
		// Some services answer with JPEG or WebP; normalise to PNG.
		img, _, err := photo.Decode(out)
		if err != nil {
			s.handleError(w, r, &background.ServiceError{StatusCode: http.StatusOK, Message: "response is not an image"}, requestID)
			return
		}
		s.writePNG(w, r, requestID, img)
		return
	}
	writeBlob(w, requestID, out, photo.FormatPNG.MIMEType())
}

// ReplaceBackground draws the "image" form file over a colour or the "background" form file.
func (s *Server) ReplaceBackground(w http.ResponseWriter, r *http.Request, params api.ReplaceBackgroundParams) {
	requestID := requestIDFrom(r)

	var fill background.Fill
	if params.Color != nil && *params.Color != "" {
		c, err := background.ParseColor(*params.Color)
		if err != nil {
			s.handleError(w, r, err, requestID)
			return
		}
		fill.Color = c
	}

	if err := s.parseMultipart(w, r); err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	fg, err := s.formImage(r, "image", true)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	if fill.Image, err = s.formImage(r, "background", false); err != nil {
		s.handleError(w, r, err, requestID)
		return
	}

	out, err := background.Replace(fg, fill)
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	s.writePNG(w, r, requestID, out)
}

// CreatePdf lays out every "images" form file on its own A4 page.
func (s *Server) CreatePdf(w http.ResponseWriter, r *http.Request, params api.CreatePdfParams) {
	requestID := requestIDFrom(r)

	orientation := pdfdoc.Portrait
	if params.Orientation != nil {
		o, err := pdfdoc.ParseOrientation(string(*params.Orientation))
		if err != nil {
			s.handleError(w, r, err, requestID)
			return
		}
		orientation = o
	}

	if err := s.parseMultipart(w, r); err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	var images []image.Image
	for i, fh := range r.MultipartForm.File["images"] {
		data, err := readFileHeader(fh)
		if err != nil {
			s.handleError(w, r, err, requestID)
			return
		}
		session := photo.NewSession()
		if err := session.Load(r.Context(), data); err != nil {
			var ve *photo.ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("images[%d]", i)
			}
			s.handleError(w, r, err, requestID)
			return
		}
		images = append(images, session.Image)
	}

	enc, _ := compress.NewEncoder(photo.FormatJPEG, s.jpegli)
	res, err := pdfdoc.Build(r.Context(), images, pdfdoc.Options{
		TargetKB:    float64(params.TargetKb),
		Orientation: orientation,
		Encoder:     enc,
	})
	if err != nil {
		s.handleError(w, r, err, requestID)
		return
	}
	w.Header().Set("X-Pages", strconv.Itoa(len(res.Pages)))
	w.Header().Set("X-Size-KB", strconv.FormatFloat(float64(len(res.Data))/1024, 'f', 1, 64))
	writeBlob(w, requestID, res.Data, "application/pdf")
}

func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, requestID string, img image.Image) {
	enc := compress.PNGEncoder{}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, img, 1); err != nil {
		s.handleError(w, r, fmt.Errorf("encode png: %w", err), requestID)
		return
	}
	writeBlob(w, requestID, buf.Bytes(), photo.FormatPNG.MIMEType())
}

func writeBlob(w http.ResponseWriter, requestID string, data []byte, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Warn("error writing response", tint.Err(err), "request_id", requestID)
	}
}

func (s *Server) lookup(key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Find(key)
	if err != nil {
		slog.Warn("cache lookup failed", tint.Err(err))
		return false
	}
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.Warn("dropping corrupt cache entry", tint.Err(err))
		_ = s.cache.Delete(key)
		return false
	}
	return true
}

func (s *Server) store(key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err == nil {
		err = s.cache.Write(key, data)
	}
	if err != nil {
		slog.Warn("cache write failed", tint.Err(err))
	}
}

func outputFormat(p *api.OutputFormat, def photo.Format) (photo.Format, error) {
	if p == nil || *p == "" {
		return def, nil
	}
	f, err := photo.ParseFormat(string(*p))
	if err != nil {
		return photo.FormatUnknown, photo.Invalid("format", err)
	}
	return f, nil
}

// requestIDFrom returns the id set by the RequestID middleware, or a fresh one.
func requestIDFrom(r *http.Request) string {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return generateRequestID()
}

// generateRequestID generates a unique request ID
func generateRequestID() string {
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}

var _ api.ServerInterface = (*Server)(nil)
