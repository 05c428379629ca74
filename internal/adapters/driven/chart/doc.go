// Package chart renders production comparisons as PNG bar charts using
// go-chart.
package chart
