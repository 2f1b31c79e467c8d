// Package embedded provides embedded static assets for the application.
package embedded

import (
	"embed"
)

// Files contains the single-page dashboard (frontend/dist), served directly via HTTP.
// Plotly is loaded by the page from its CDN.
//
//go:embed frontend/dist
var Files embed.FS
