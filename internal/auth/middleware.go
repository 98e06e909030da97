package auth

import (
	"github.com/danielgtaylor/huma/v2"
)

// AdminInput is embedded in the input of every admin operation.
type AdminInput struct {
	AdminKey      string `header:"x-admin-key" doc:"Shared admin secret"`
	Authorization string `header:"Authorization" doc:"Bearer token from POST /api/admin/session"`
}

// Check turns a failed Authorize into a 401 response error.
func (g *Gate) Check(in AdminInput) error {
	if err := g.Authorize(in.AdminKey, in.Authorization); err != nil {
		return huma.Error401Unauthorized("Invalid or missing admin API key")
	}
	return nil
}

// Security marks an operation as admin-only in the OpenAPI document.
func Security(o *huma.Operation) {
	o.Security = []map[string][]string{{"adminKey": {}}, {"bearerAuth": {}}}
}

// SecuritySchemes lists the admin schemes for the API config.
func SecuritySchemes() map[string]*huma.SecurityScheme {
	return map[string]*huma.SecurityScheme{
		"adminKey": {
			Type: "apiKey",
			In:   "header",
			Name: AdminKeyHeader,
		},
		"bearerAuth": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
}
