package main

import (
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/prazis-quote/internal/catalog"
	"github.com/Simplici0/prazis-quote/internal/logger"
	"github.com/Simplici0/prazis-quote/internal/pricing"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	srv := newServer(catalog.Default(), logger.Nop(), 0.40)
	srv.now = func() time.Time { return time.Date(2026, time.October, 15, 9, 0, 0, 0, time.UTC) }
	return srv.routes()
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

const referenceBody = `{"materialId":"pla","weight":50,"printTime":2,"quantity":1,"qualityId":"balanced","postProcessing":[],"usageType":"decorative"}`

func TestHandleQuote_AppliesConfiguredMarginPolicy(t *testing.T) {
	rr := post(t, newTestServer(t), "/quotes", referenceBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result pricing.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.InDelta(t, 102.450264, result.Subtotal, 1e-9)
	require.InDelta(t, 0.40, result.ProfitMarginRate, 1e-12)
	require.InDelta(t, 102.450264*1.40, result.Total, 1e-9)
}

func TestHandleQuote_ExplicitMarginWins(t *testing.T) {
	body := strings.Replace(referenceBody, `"usageType"`, `"profitMargin":0.35,"usageType"`, 1)
	rr := post(t, newTestServer(t), "/quotes", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var result pricing.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Equal(t, 138.31, math.Round(result.Total*100)/100)
}

func TestHandleQuote_Validation(t *testing.T) {
	h := newTestServer(t)
	cases := map[string]string{
		"bad json":         `{"materialId":`,
		"unknown field":    `{"materialId":"pla","qualityId":"balanced","quantity":1,"colour":"red"}`,
		"missing material": `{"qualityId":"balanced","quantity":1}`,
		"zero quantity":    `{"materialId":"pla","qualityId":"balanced","quantity":0}`,
		"negative weight":  `{"materialId":"pla","qualityId":"balanced","quantity":1,"weight":-1}`,
		"bad usage":        `{"materialId":"pla","qualityId":"balanced","quantity":1,"usageType":"industrial"}`,
		"margin too high":  `{"materialId":"pla","qualityId":"balanced","quantity":1,"profitMargin":2}`,
		"unknown material": `{"materialId":"unobtainium","qualityId":"balanced","quantity":1}`,
		"unknown quality":  `{"materialId":"pla","qualityId":"potato","quantity":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := post(t, h, "/quotes", body)
			require.Equal(t, http.StatusBadRequest, rr.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandleQuoteText(t *testing.T) {
	body := strings.Replace(referenceBody, `"quantity":1`, `"quantity":3,"projectName":"Llaveros"`, 1)
	rr := post(t, newTestServer(t), "/quotes/text", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
	require.Contains(t, rr.Header().Get("Content-Disposition"), "Cotizacion_Prazis_Llaveros_")

	text := rr.Body.String()
	for _, want := range []string{"Proyecto:", "Llaveros", "TOTAL:", "MXN", "Precio unitario:"} {
		require.Contains(t, text, want)
	}
}

func TestHandleQuotePNG(t *testing.T) {
	h := newTestServer(t)

	rr := post(t, h, "/quotes/png", referenceBody)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	require.Equal(t, "1", rr.Header().Get("X-Page-Count"))
	_, err := png.Decode(rr.Body)
	require.NoError(t, err)

	rr = post(t, h, "/quotes/png?page=2", referenceBody)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = post(t, h, "/quotes/png?page=zero", referenceBody)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleEstimate(t *testing.T) {
	h := newTestServer(t)

	rr := post(t, h, "/estimates", `{"volumeCm3":50,"layerHeightMm":0.2,"materialId":"pla","qualityId":"balanced"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp estimateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.InDelta(t, 50*1.24*0.44, resp.WeightGrams, 1e-9)
	require.InDelta(t, 1.0, resp.PrintTimeHours, 1e-9)

	rr = post(t, h, "/estimates", `{"volumeCm3":50,"layerHeightMm":0.2,"materialId":"unobtainium","qualityId":"balanced"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Zero(t, resp.WeightGrams)

	rr = post(t, h, "/estimates", `{"volumeCm3":50,"layerHeightMm":0,"materialId":"pla","qualityId":"balanced"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleCatalogAndHealth(t *testing.T) {
	h := newTestServer(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var snap catalog.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	require.Len(t, snap.Materials, 21)
	require.Equal(t, "Bambu Lab H2D", snap.Machine.Name)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestOverflowingInputsAreRejected(t *testing.T) {
	h := newTestServer(t)
	huge := strings.Replace(referenceBody, `"weight":50`, `"weight":1.79e308`, 1)

	for _, path := range []string{"/quotes", "/quotes/text", "/quotes/png"} {
		t.Run(path, func(t *testing.T) {
			rr := post(t, h, path, huge)
			require.Equal(t, http.StatusBadRequest, rr.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.Equal(t, errOutOfRange, resp.Error)
		})
	}

	rr := post(t, h, "/estimates", `{"volumeCm3":1.79e308,"layerHeightMm":0.01,"materialId":"pla","qualityId":"balanced"}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWriteJSONReportsEncodingFailure(t *testing.T) {
	srv := newServer(catalog.Default(), logger.Nop(), 0.40)
	rr := httptest.NewRecorder()

	srv.writeJSON(rr, http.StatusOK, estimateResponse{WeightGrams: math.Inf(1)})

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Header().Get("Content-Type"), "application/json")
}
