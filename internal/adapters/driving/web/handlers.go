package web

import (
	"embed"
	"encoding/base64"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/pvflow/internal/core/domain"
	"github.com/custodia-labs/pvflow/internal/logger"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	Today string
}

type powerFlowRequest struct {
	Date string `json:"date"`
}

type powerFlowResponse struct {
	PlotData       []plotlyTrace      `json:"plot_data"`
	PlotLayout     plotlyLayout       `json:"plot_layout"`
	CalculatedData map[string]float64 `json:"calculated_data"`
}

type productionForecastResponse struct {
	GraphData string `json:"graph_data"`
}

type forecastUpdateResponse struct {
	Status  string `json:"status"`
	FetchID string `json:"fetch_id"`
	Periods int    `json:"periods"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// today returns the current date in the site timezone.
func (s *Server) today() string {
	loc := time.UTC
	if s.ports.Settings != nil {
		if settings, err := s.ports.Settings.Get(); err == nil {
			loc = settings.Site.Location()
		} else {
			logger.Warn("web: load settings: %v", err)
		}
	}
	return s.now().In(loc).Format(domain.DateLayout)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData{Today: s.today()}); err != nil {
		logger.Error("web: render index: %v", err)
	}
}

func (s *Server) handlePowerFlow(w http.ResponseWriter, r *http.Request) {
	var req powerFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	date := strings.TrimSpace(req.Date)
	if date == "" {
		writeError(w, http.StatusBadRequest, "Missing date")
		return
	}

	result, err := s.ports.PowerFlow.PowerFlow(r.Context(), date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	data, layout := sankeyFigure(result.Diagram)
	writeJSON(w, http.StatusOK, powerFlowResponse{
		PlotData:       data,
		PlotLayout:     layout,
		CalculatedData: result.Flow.CalculatedData(),
	})
}

func (s *Server) handleProductionForecast(w http.ResponseWriter, r *http.Request) {
	if s.ports.Forecast == nil {
		writeDomainError(w, r, domain.ErrNotConfigured)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = s.today()
	}

	chart, err := s.ports.Forecast.ProductionChart(r.Context(), date)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productionForecastResponse{
		GraphData: "data:image/png;base64," + base64.StdEncoding.EncodeToString(chart.PNG),
	})
}

func (s *Server) handleForecastUpdate(w http.ResponseWriter, r *http.Request) {
	if s.ports.Forecast == nil {
		writeDomainError(w, r, domain.ErrNotConfigured)
		return
	}
	fetch, err := s.ports.Forecast.Refresh(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, forecastUpdateResponse{
		Status:  "ok",
		FetchID: fetch.ID,
		Periods: len(fetch.Periods),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
