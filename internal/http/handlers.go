package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"texforge/internal/cache"
	"texforge/internal/config"
	"texforge/internal/generator"
	"texforge/internal/presets"
	"texforge/internal/stats"
	"texforge/internal/texture"
)

type Handlers struct {
	config    *config.Config
	logger    *zap.Logger
	generator *generator.Generator
	presets   *presets.Scanner
	stats     *stats.Stats
	cache     cache.Cache
}

func New(config *config.Config, logger *zap.Logger, gen *generator.Generator, presets *presets.Scanner, st *stats.Stats, c cache.Cache) *Handlers {
	return &Handlers{
		config:    config,
		logger:    logger,
		generator: gen,
		presets:   presets,
		stats:     st,
		cache:     c,
	}
}

// Routes returns the API mux wrapped in the CORS and request logging middleware.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/generate", h.HandleGenerate)
	mux.HandleFunc("/api/stats", h.HandleStats)
	mux.HandleFunc("/api/presets", h.HandlePresets)
	mux.HandleFunc("/api/presets/", h.HandlePresetRoutes)
	mux.HandleFunc("/health", h.HandleHealthz)
	mux.HandleFunc("/healthz", h.HandleHealthz)

	return h.CORSMiddleware(h.RequestLoggingMiddleware(mux))
}

func (h *Handlers) RequestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()
		start := time.Now()

		ip := h.extractIP(r)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		wrapped.Header().Set("X-Request-Id", requestID)

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		bytes := wrapped.bytesWritten

		h.logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("ip", ip),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", wrapped.statusCode),
			zap.Int64("bytes", bytes),
			zap.Int64("duration_ms", duration.Milliseconds()),
			zap.String("user_agent", r.UserAgent()),
		)
	})
}

func (h *Handlers) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowedOrigin := ""

		if h.config.AllowedOrigin != "" {
			allowedOrigin = h.config.AllowedOrigin
		} else {
			host := r.Host
			if origin != "" && (strings.HasPrefix(origin, "http://"+host) || strings.HasPrefix(origin, "https://"+host)) {
				allowedOrigin = origin
			} else if origin == "" {
				allowedOrigin = "*"
			}
		}

		if allowedOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Expose-Headers", "ETag, X-Cache, X-Request-Id")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// HandleGenerate decodes a texture config from the body and responds with the
// generated result.
func (h *Handlers) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body", "")
		return
	}

	cfg, err := texture.DecodeJSON(bytes.NewReader(body))
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}

	h.generate(w, r, cfg)
}

func (h *Handlers) generate(w http.ResponseWriter, r *http.Request, cfg texture.Config) {
	out, err := h.generator.Run(r.Context(), cfg)
	if err != nil {
		h.writeGenerateError(w, err)
		return
	}

	cacheStatus := "miss"
	if out.Cached {
		cacheStatus = "hit"
	}

	w.Header().Set("ETag", `"`+texture.ETag(out.Key)+`"`)
	w.Header().Set("X-Cache", cacheStatus)
	writeJSON(w, http.StatusOK, out.Result)
}

func (h *Handlers) writeGenerateError(w http.ResponseWriter, err error) {
	var validationErr *texture.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, validationErr.Error(), validationErr.Field)
		return
	}

	// GenerationErrors are already logged with full context by the generator;
	// anything else here is the caller going away mid-build.
	var genErr *generator.GenerationError
	if !errors.As(err, &genErr) {
		h.logger.Warn("Generation aborted", zap.Error(err))
	}
	writeError(w, http.StatusInternalServerError, "texture generation failed", "")
}

func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := struct {
		stats.Snapshot
		Cache cacheInfo `json:"cache"`
	}{
		Snapshot: h.stats.Snapshot(),
		Cache: cacheInfo{
			Type:    h.config.CacheType,
			Entries: h.cache.Len(r.Context()),
		},
	}
	writeJSON(w, http.StatusOK, response)
}

type cacheInfo struct {
	Type    string `json:"type"`
	Entries int    `json:"entries"`
}

func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) HandlePresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.presets.List())
}

// HandlePresetRoutes serves /api/presets/{id} and /api/presets/{id}/generate.
func (h *Handlers) HandlePresetRoutes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/presets/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}

	preset, ok := h.presets.Get(parts[0])
	if !ok {
		writeError(w, http.StatusNotFound, "preset not found: "+parts[0], "")
		return
	}

	switch {
	case len(parts) == 1:
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, preset)
	case len(parts) == 2 && parts[1] == "generate":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.generate(w, r, preset.Config)
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, field string) {
	body := map[string]string{"error": message}
	if field != "" {
		body["field"] = field
	}
	writeJSON(w, status, body)
}

// Not for real production use due to potential spoofing
func (h *Handlers) extractIP(r *http.Request) string {
	ip := r.Header.Get("X-Real-Ip")
	if ip != "" {
		return strings.Split(ip, ":")[0]
	}

	addr := r.RemoteAddr
	if addr != "" {
		return strings.Split(addr, ":")[0]
	}

	return "unknown"
}

type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}
