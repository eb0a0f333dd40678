// Package web embeds the email templates the worker renders.
package web

import "embed"

// TemplatesFS holds the HTML templates for summary emails.
//
//go:embed templates/*.html
var TemplatesFS embed.FS
