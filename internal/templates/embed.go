// Package templates bundles the HTML page templates.
package templates

import "embed"

//go:embed *.html
var Files embed.FS
