// Package swagger pkg/swagger/embed.go
package swagger

import (
	_ "embed"
	"net/http"

	"github.com/swaggo/swag"

	"github.com/carverauto/nodeview/pkg/version"
)

//go:embed swagger.json
var docTemplate string

// SwaggerInfo holds the values substituted into the embedded document.
var SwaggerInfo = &swag.Spec{
	Version:          version.GetVersion(),
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Nodes API",
	Description:      "Read-only node inventory backing the nodeview dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// GetSwaggerJSON renders the registered document.
func GetSwaggerJSON() ([]byte, error) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		return nil, err
	}

	return []byte(doc), nil
}

// Handler serves the rendered document as JSON.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := GetSwaggerJSON()
		if err != nil {
			http.Error(w, "Swagger JSON not found", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}
