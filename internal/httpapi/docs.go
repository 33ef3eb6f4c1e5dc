package httpapi

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"wellsync-backend/internal/auth"

	"github.com/gin-gonic/gin"
)

const bearerScheme = "bearer"

// Docs serves an OpenAPI 3 document generated from the policy table.
// Operations that require authentication carry the bearer security requirement.
type Docs struct {
	Title   string
	Version string
	Table   *auth.Table
}

func (d Docs) Serve(c *gin.Context) {
	c.JSON(http.StatusOK, d.Document())
}

// swaggerUIPage renders Swagger UI from the CDN against the JSON document.
const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: %q,
      dom_id: "#swagger-ui",
      persistAuthorization: true
    });
  </script>
</body>
</html>
`

// UI serves the interactive page for the document at specPath.
func (d Docs) UI(specPath string) gin.HandlerFunc {
	page := []byte(fmt.Sprintf(swaggerUIPage, html.EscapeString(d.Title), specPath))
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}

func (d Docs) Document() gin.H {
	paths := gin.H{}
	for _, op := range d.Table.Operations() {
		p := openAPIPath(op.Route)
		item, ok := paths[p].(gin.H)
		if !ok {
			item = gin.H{}
			paths[p] = item
		}

		o := gin.H{
			"operationId": operationID(op.Method, op.Route),
			"responses":   responsesFor(op.Policy),
		}
		if tag := firstSegment(op.Route); tag != "" {
			o["tags"] = []string{tag}
		}
		if !op.Policy.Public {
			o["security"] = []gin.H{{bearerScheme: []string{}}}
		}
		if op.Policy.RequiredRole != "" {
			o["description"] = "Requires role `" + op.Policy.RequiredRole + "`."
		}
		item[strings.ToLower(op.Method)] = o
	}

	return gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":   d.Title,
			"version": d.Version,
		},
		"paths": paths,
		"components": gin.H{
			"securitySchemes": gin.H{
				bearerScheme: gin.H{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
	}
}

func responsesFor(p auth.Policy) gin.H {
	r := gin.H{"200": gin.H{"description": "OK"}}
	if !p.Public {
		r["401"] = gin.H{"description": "Missing or invalid bearer token"}
	}
	if p.RequiredRole != "" {
		r["403"] = gin.H{"description": "Forbidden"}
	}
	return r
}

// openAPIPath rewrites gin params (":id", "*path") to "{id}".
func openAPIPath(route string) string {
	parts := strings.Split(route, "/")
	for i, s := range parts {
		if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			parts[i] = "{" + s[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

func operationID(method, route string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, s := range strings.Split(route, "/") {
		s = strings.TrimLeft(s, ":*")
		for _, w := range strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' }) {
			b.WriteString(strings.ToUpper(w[:1]) + w[1:])
		}
	}
	return b.String()
}

func firstSegment(route string) string {
	s := strings.TrimPrefix(route, "/")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}
