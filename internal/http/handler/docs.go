package handler

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/swaggo/swag"
	"gopkg.in/yaml.v3"
)

const docsPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.json',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`

// documentedPrefix is the API prefix the route annotations are written against.
const documentedPrefix = "/api"

// RegisterDocs serves the registered API description as JSON and YAML plus the Swagger UI.
// Documented paths are moved under apiPrefix so they match the mounted routes.
func RegisterDocs(app fiber.Router, apiPrefix string) {
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := Description(apiPrefix)
		if err != nil {
			return err
		}
		return c.JSON(doc)
	})

	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		out, err := DescriptionYAML(apiPrefix)
		if err != nil {
			return err
		}
		c.Type("yaml")
		return c.Send(out)
	})

	app.Get("/docs", func(c *fiber.Ctx) error {
		return c.Type("html").SendString(docsPage)
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{URL: "/openapi.json"}))
}

// Description returns the registered API description with its paths under apiPrefix.
func Description(apiPrefix string) (map[string]any, error) {
	raw, err := swag.ReadDoc()
	if err != nil {
		return nil, fmt.Errorf("read api description: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode api description: %w", err)
	}

	paths, ok := doc["paths"].(map[string]any)
	if !ok || apiPrefix == documentedPrefix {
		return doc, nil
	}
	moved := make(map[string]any, len(paths))
	for path, item := range paths {
		if rest, found := strings.CutPrefix(path, documentedPrefix+"/"); found {
			path = apiPrefix + "/" + rest
		}
		moved[path] = item
	}
	doc["paths"] = moved
	return doc, nil
}

// DescriptionYAML renders Description as YAML.
func DescriptionYAML(apiPrefix string) ([]byte, error) {
	doc, err := Description(apiPrefix)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode api description: %w", err)
	}
	return out, nil
}
