package schemas

import "embed"

// SchemasFS содержит все JSON-схемы запросов API.
//
//go:embed requests
var SchemasFS embed.FS
