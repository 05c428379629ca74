// Package web serves the pvflow browser interface and its JSON API.
//
// Routes:
//
//	GET  /                         date picker page, plots with Plotly
//	POST /api/powerflow            {"date": "YYYY-MM-DD"} -> Sankey figure + totals
//	GET  /api/production_forecast  ?date=YYYY-MM-DD -> PNG chart as a data URL
//	GET  /api/forecast_update      fetch and store a fresh forecast (POST also accepted)
//	GET  /healthz                  liveness probe
//
// Failures are answered with {"error": "..."} and a status derived from the
// domain error.
package web
