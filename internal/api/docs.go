// internal/api/docs.go
package api

import (
	_ "embed"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.json
var openAPIDoc []byte

const docPath = "/swagger/doc.json"

// RegisterDocs serves the API description and the Swagger UI under /swagger/.
func RegisterDocs(mux *http.ServeMux) {
	mux.HandleFunc("GET "+docPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(openAPIDoc)
	})
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL(docPath)))
}
