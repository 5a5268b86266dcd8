package constants

// Static route constants
const (
	APIRoute     = "/api"
	APIV1Route   = "/v1"
	MetricsRoute = "/metrics"
	// Swagger UI base path for the OpenAPI document
	APIDocsRoute = "/docs/api/"
)
