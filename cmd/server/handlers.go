package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/Simplici0/prazis-quote/internal/catalog"
	"github.com/Simplici0/prazis-quote/internal/export"
	"github.com/Simplici0/prazis-quote/internal/logger"
	"github.com/Simplici0/prazis-quote/internal/pricing"
)

const maxBodyBytes = 1 << 20

const errOutOfRange = "los valores de entrada producen resultados fuera de rango"

type server struct {
	catalog      *catalog.Catalog
	log          *logger.Logger
	profitMargin float64
	brand        export.Brand
	now          func() time.Time
}

func newServer(cat *catalog.Catalog, log *logger.Logger, profitMargin float64) *server {
	return &server{
		catalog:      cat,
		log:          log,
		profitMargin: profitMargin,
		brand:        export.DefaultBrand,
		now:          time.Now,
	}
}

type estimateRequest struct {
	VolumeCm3     float64 `json:"volumeCm3"`
	LayerHeightMm float64 `json:"layerHeightMm"`
	MaterialID    string  `json:"materialId"`
	QualityID     string  `json:"qualityId"`
}

type estimateResponse struct {
	WeightGrams    float64 `json:"weightGrams"`
	PrintTimeHours float64 `json:"printTimeHours"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.catalog.Snapshot())
}

func (s *server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if req.VolumeCm3 < 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "volumeCm3 debe ser mayor o igual a 0"})
		return
	}
	if req.LayerHeightMm <= 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "layerHeightMm debe ser mayor a 0"})
		return
	}

	resp := estimateResponse{
		WeightGrams:    pricing.EstimateWeightFromVolume(req.VolumeCm3, req.MaterialID, s.catalog),
		PrintTimeHours: pricing.EstimatePrintTimeFromVolume(req.VolumeCm3, req.LayerHeightMm, req.QualityID, s.catalog),
	}
	if !isFinite(resp.WeightGrams) || !isFinite(resp.PrintTimeHours) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errOutOfRange})
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleQuote(w http.ResponseWriter, r *http.Request) {
	_, result, ok := s.computeQuote(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	job, result, ok := s.computeQuote(w, r)
	if !ok {
		return
	}

	now := s.now()
	doc := export.Build(result, job, s.catalog, s.brand, now)

	var buf bytes.Buffer
	if err := export.WriteText(&buf, doc); err != nil {
		s.log.Error("render quote text", "error", err)
		http.Error(w, "failed to render quote", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(export.FileName(s.brand, job.ProjectName, now, "txt")))
	_, _ = w.Write(buf.Bytes())
}

func (s *server) handleQuotePNG(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "page debe ser un entero mayor a 0"})
			return
		}
		page = n
	}

	job, result, ok := s.computeQuote(w, r)
	if !ok {
		return
	}

	now := s.now()
	doc := export.Build(result, job, s.catalog, s.brand, now)
	total := export.PageCount(doc)
	if page > total {
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("la cotización tiene %d página(s)", total)})
		return
	}

	var buf bytes.Buffer
	if err := export.WritePNG(&buf, doc, page); err != nil {
		s.log.Error("render quote png", "error", err, "page", page)
		http.Error(w, "failed to render quote", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Page-Count", strconv.Itoa(total))
	w.Header().Set("Content-Disposition", attachment(export.FileName(s.brand, job.ProjectName, now, "png")))
	_, _ = w.Write(buf.Bytes())
}

// computeQuote decodes, validates and prices the request body. It writes the
// error response itself and reports whether the caller should continue.
func (s *server) computeQuote(w http.ResponseWriter, r *http.Request) (pricing.JobParameters, pricing.Result, bool) {
	job, err := parseQuoteRequest(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return job, pricing.Result{}, false
	}
	if job.ProfitMargin == nil {
		margin := s.profitMargin
		job.ProfitMargin = &margin
	}

	result, err := pricing.Calculate(job, s.catalog)
	if err != nil {
		var refErr *pricing.InvalidReferenceError
		if errors.As(err, &refErr) {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return job, pricing.Result{}, false
		}
		s.log.Error("calculate quote", "error", err)
		http.Error(w, "failed to calculate quote", http.StatusInternalServerError)
		return job, pricing.Result{}, false
	}
	if !isFiniteResult(result) {
		s.log.Warn("quote out of range", "weight", job.WeightGrams, "print_time", job.PrintTimeHours, "quantity", job.Quantity)
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: errOutOfRange})
		return job, pricing.Result{}, false
	}

	s.log.Debug("quote computed",
		"material", job.MaterialID,
		"quality", job.QualityID,
		"quantity", job.Quantity,
		"client_contact", job.ClientContact,
		"total", result.Total,
	)
	return job, result, true
}

// parseQuoteRequest applies the input guardrails the engine leaves to its callers.
func parseQuoteRequest(r *http.Request) (pricing.JobParameters, error) {
	var job pricing.JobParameters
	if err := decodeJSON(r, &job); err != nil {
		return job, err
	}

	if job.MaterialID == "" {
		return job, fmt.Errorf("materialId es requerido")
	}
	if job.QualityID == "" {
		return job, fmt.Errorf("qualityId es requerido")
	}
	if job.WeightGrams < 0 {
		return job, fmt.Errorf("weight debe ser mayor o igual a 0")
	}
	if job.PrintTimeHours < 0 {
		return job, fmt.Errorf("printTime debe ser mayor o igual a 0")
	}
	if job.Quantity < 1 {
		return job, fmt.Errorf("quantity debe ser mayor o igual a 1")
	}
	switch job.UsageType {
	case "", pricing.UsageDecorative, pricing.UsageFunctional:
	default:
		return job, fmt.Errorf("usageType debe ser decorative o functional")
	}
	if job.ProfitMargin != nil && (*job.ProfitMargin < 0 || *job.ProfitMargin > 1) {
		return job, fmt.Errorf("profitMargin debe estar entre 0 y 1")
	}

	return job, nil
}

func isFiniteResult(r pricing.Result) bool {
	for _, v := range []float64{
		r.BilledWeightGrams, r.PrintTimeHours,
		r.MaterialCost, r.ElectricityCost, r.MachineCost, r.LaborCost,
		r.PostProcessingCost, r.LogoCost, r.FailureCost,
		r.BaseSubtotal, r.SurchargedSubtotal, r.Discount, r.Subtotal,
		r.ProfitMargin, r.Total,
	} {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("cuerpo JSON inválido: %w", err)
	}
	return nil
}

// writeJSON encodes before writing the status so an encoding failure still
// reaches the client as a 500.
func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error("encode json response", "error", err, "status", status)
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}
