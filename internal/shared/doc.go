// Package shared holds helpers used across the dashboard packages that do not
// belong to any single layer.
//
// The testutil subpackage provides a capturing slog handler and survey
// workbook fixtures for tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	path := testutil.WriteSurveyWorkbook(t, dir, testutil.SampleSurveyRows())
package shared
