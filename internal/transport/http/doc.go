// Package http implements the HTTP handlers of the transformer dashboard.
// Handlers stay thin: they parse and validate the request, call the service
// layer and render the result.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → DatasetStore
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// Every failure is rendered through errors.ErrorHandler as RFC 7807 Problem
// Details:
//
//	{
//	    "type": "/errors/dataset/not-loaded",
//	    "title": "No Dataset Loaded",
//	    "status": 404,
//	    "detail": "Upload a file or generate demo data first",
//	    "instance": "/api/summary"
//	}
//
// # Testing
//
// Handlers are tested with httptest against a real AnalysisService backed by
// the in-memory dataset store.
package http
