package bootstrap

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Todo List API</title>
<link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>window.ui = SwaggerUIBundle({url: "/docs/openapi.json", dom_id: "#swagger-ui"});</script>
</body>
</html>`

// registerDocs serves the OpenAPI document when one exists on disk. A missing
// file is not an error; the routes are simply not registered.
func registerDocs(r gin.IRouter, openapiPath string) (bool, error) {
	if openapiPath == "" {
		return false, nil
	}

	doc, err := os.ReadFile(openapiPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	r.GET("/docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsPage))
	})
	r.GET("/docs/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
	})
	return true, nil
}

// staticFiles serves files under dir for GET and HEAD requests, ahead of the
// API routes. Requests with no matching file fall through to the next handler.
func staticFiles(dir string) gin.HandlerFunc {
	serve := static.Serve("/", static.LocalFile(dir, false))
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			return
		}
		if hasDotDot(c.Request.URL.Path) {
			return
		}
		serve(c)
	}
}

func hasDotDot(urlPath string) bool {
	for _, seg := range strings.Split(urlPath, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
