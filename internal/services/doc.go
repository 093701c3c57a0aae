// Package services implements the business logic layer of the transformer
// dashboard. It sits between the HTTP handlers and the extraction, storage
// and export packages.
//
// # Services
//
//	- AnalysisService loads datasets (upload, demo generator, Google Sheets)
//	  and answers the dashboard queries on the current one
//	- HealthService reports liveness, readiness and version information
//
// # Dataset loads
//
// Every load runs the same steps: produce records, stamp and save them as the
// current dataset, record pipeline metrics, then broadcast a dataset event to
// connected dashboards. A failed load leaves the previous dataset in place and
// broadcasts a dataset:failed event instead.
//
// # Error Handling
//
// Services return the application errors from internal/errors unchanged so
// the HTTP layer can map them to RFC 7807 responses:
//
//	ds, err := svc.LoadUpload(ctx, file, header.Filename, header.Size)
//	if err != nil {
//	    h.errorHandler.HandleError(w, r, err)
//	    return
//	}
package services
