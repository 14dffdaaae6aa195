package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	traceIDKey   contextKey = "trace_id"
)

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(withID("X-Request-ID", requestIDKey))
	r.Use(withID("X-Trace-Id", traceIDKey))
	r.Use(recoverer(s.log))
	r.Use(accessLog(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.ping != nil {
			if err := s.ping(r.Context()); err != nil {
				s.log.Warn("http.not_ready", zap.Error(err))
				writeError(w, http.StatusServiceUnavailable, "storage not ready")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	r.Post("/reports", s.RequestReport)
	r.Get("/reports/{id}", s.GetReportRun)
	r.Get("/reports/{id}/workbook", s.GetReportWorkbook)
	r.Get("/comparisons/latest", s.GetLatestComparison)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// withID echoes header back, generating a uuid when the client sent none,
// and stores the value in the request context under key.
func withID(header string, key contextKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), key, id)))
		})
	}
}

func recoverer(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("http.panic_recovered", append(requestFields(r), zap.Any("error", rec))...)
					writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type responseMeter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (m *responseMeter) WriteHeader(code int) {
	if m.status == 0 {
		m.status = code
	}
	m.ResponseWriter.WriteHeader(code)
}

func (m *responseMeter) Write(b []byte) (int, error) {
	if m.status == 0 {
		m.status = http.StatusOK
	}
	n, err := m.ResponseWriter.Write(b)
	m.bytes += n
	return n, err
}

func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m := &responseMeter{ResponseWriter: w}
			next.ServeHTTP(m, r)
			fields := append(requestFields(r),
				zap.Int("status", m.status),
				zap.Int("bytes", m.bytes),
				zap.Duration("duration", time.Since(start)),
			)
			if m.status >= http.StatusInternalServerError {
				log.Warn("http.request", fields...)
				return
			}
			log.Info("http.request", fields...)
		})
	}
}

func requestFields(r *http.Request) []zap.Field {
	rid, _ := r.Context().Value(requestIDKey).(string)
	tid, _ := r.Context().Value(traceIDKey).(string)
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", rid),
		zap.String("trace_id", tid),
	}
}
