// Package assets embeds the browser client served by the HTTP server.
package assets

import "embed"

// Web holds web/index.html, web/app.js and web/style.css.
//
//go:embed web
var Web embed.FS
