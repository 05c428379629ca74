// Package solcast implements driven.ForecastProvider against the Solcast
// rooftop site API.
package solcast
