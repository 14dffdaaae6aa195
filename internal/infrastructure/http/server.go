package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"crypto-report/internal/application"
	"crypto-report/internal/domain"
	"crypto-report/internal/infrastructure/report"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"
)

// ReportService is the part of application.ReportService the API needs.
type ReportService interface {
	RequestReport(ctx context.Context, idem *string) (string, error)
	GetReportRun(ctx context.Context, id string) (domain.ReportRun, error)
	LatestComparison(ctx context.Context) (domain.ComparisonSnapshot, error)
}

var _ ReportService = (*application.ReportService)(nil)

type Server struct {
	svc        ReportService
	ping       func(ctx context.Context) error
	readSheets func(path string) (map[string][][]string, error)
	log        *zap.Logger
}

func NewServer(svc ReportService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{svc: svc, readSheets: report.ReadSheets, log: log}
}

// SetReadyCheck installs the dependency probe behind /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type requestReportResponse struct {
	RunID string `json:"run_id"`
}

type artifactsDTO struct {
	Report      string `json:"report"`
	PriceChart  string `json:"price_chart"`
	ChangeChart string `json:"change_chart"`
}

type reportRunDTO struct {
	RunID       string        `json:"run_id"`
	Status      string        `json:"status"`
	Error       *string       `json:"error,omitempty"`
	RequestedAt time.Time     `json:"requested_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	Artifacts   *artifactsDTO `json:"artifacts,omitempty"`
}

type comparisonRowDTO struct {
	Coin           string   `json:"coin"`
	Date           string   `json:"date"`
	PriceUSD       float64  `json:"price_usd"`
	CurrentPrice   float64  `json:"current_price"`
	MarketCap      float64  `json:"market_cap"`
	Volume24h      float64  `json:"volume_24h"`
	PriceChangePct *float64 `json:"price_change_pct"`
}

type comparisonDTO struct {
	RunID   string             `json:"run_id"`
	TakenAt time.Time          `json:"taken_at"`
	Rows    []comparisonRowDTO `json:"rows"`
}

func (s *Server) RequestReport(w http.ResponseWriter, r *http.Request) {
	var idem *string
	if v := r.Header.Get("X-Idempotency-Key"); v != "" {
		idem = &v
	}
	id, err := s.svc.RequestReport(r.Context(), idem)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, requestReportResponse{RunID: id})
}

func (s *Server) GetReportRun(w http.ResponseWriter, r *http.Request) {
	id, ok := s.runID(w, r)
	if !ok {
		return
	}
	run, err := s.svc.GetReportRun(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	resp := reportRunDTO{
		RunID:       run.ID,
		Status:      string(run.Status),
		Error:       run.Error,
		RequestedAt: run.RequestedAt,
		UpdatedAt:   run.UpdatedAt,
	}
	if a := run.Artifacts; a != nil {
		resp.Artifacts = &artifactsDTO{Report: a.ReportPath, PriceChart: a.PriceChartPath, ChangeChart: a.ChangeChartPath}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetReportWorkbook returns the sheets of a finished run's workbook.
func (s *Server) GetReportWorkbook(w http.ResponseWriter, r *http.Request) {
	id, ok := s.runID(w, r)
	if !ok {
		return
	}
	run, err := s.svc.GetReportRun(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if run.Status != domain.ReportRunStatusDone || run.Artifacts == nil {
		writeError(w, http.StatusConflict, "report run is "+string(run.Status))
		return
	}
	sheets, err := s.readSheets(run.Artifacts.ReportPath)
	if err != nil {
		s.log.Warn("http.workbook_read_failed", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "workbook unavailable")
		return
	}
	writeJSON(w, http.StatusOK, sheets)
}

func (s *Server) GetLatestComparison(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.LatestComparison(r.Context())
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	resp := comparisonDTO{RunID: snap.RunID, TakenAt: snap.TakenAt, Rows: make([]comparisonRowDTO, 0, len(snap.Records))}
	for _, rec := range snap.Records {
		row := comparisonRowDTO{
			Coin:         string(rec.Coin),
			Date:         domain.FormatDate(rec.Date),
			PriceUSD:     rec.PriceUSD,
			CurrentPrice: rec.CurrentPrice,
			MarketCap:    rec.MarketCap,
			Volume24h:    rec.Volume24h,
		}
		if !math.IsNaN(rec.PriceChangePct) {
			v := rec.PriceChangePct
			row.PriceChangePct = &v
		}
		resp.Rows = append(resp.Rows, row)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) runID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil || id == "" {
		writeError(w, http.StatusBadRequest, "invalid run id")
		return "", false
	}
	return id, true
}

func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, application.ErrConflict):
		writeError(w, http.StatusConflict, "duplicate idempotency key")
	case errors.Is(err, application.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		rid, _ := r.Context().Value(requestIDKey).(string)
		s.log.Error("http.internal_error", zap.String("path", r.URL.Path), zap.String("request_id", rid), zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorEnvelope{Code: status, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
