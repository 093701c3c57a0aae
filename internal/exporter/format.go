package exporter

import (
	"strconv"
)

// formatFloat renders a value with the shortest exact representation so
// exported numbers round-trip through the CSV decoder.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatFixed renders a value with two decimals for human-facing reports.
func formatFixed(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
