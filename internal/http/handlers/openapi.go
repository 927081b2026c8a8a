package handlers

import (
	_ "embed"
	"fmt"
	"net/http"
)

//go:embed openapi.json
var openAPIDocument []byte

const (
	docsTitle    = "Brandkit API"
	docsSpecPath = "/v1/openapi.json"
	redocBundle  = "https://cdn.jsdelivr.net/npm/redoc@2.2.0/bundles/redoc.standalone.js"
)

var docsPage = []byte(fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width, initial-scale=1" />
<title>%s</title>
<style>body{margin:0}redoc{display:block;height:100vh}</style>
</head>
<body>
<redoc spec-url="%s" hide-download-button></redoc>
<script src="%s"></script>
</body>
</html>`, docsTitle, docsSpecPath, redocBundle))

// OpenAPIJSON serves the embedded OpenAPI document.
func (a *App) OpenAPIJSON(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = w.Write(openAPIDocument)
}

// OpenAPIDocs renders the document with Redoc.
func (a *App) OpenAPIDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(docsPage)
}
