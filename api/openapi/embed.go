// Package openapi embeds the API contract served at /api/openapi.yaml.
package openapi

import _ "embed"

// Spec is the OpenAPI 3 document describing the HTTP API.
//
//go:embed openapi.yaml
var Spec []byte
