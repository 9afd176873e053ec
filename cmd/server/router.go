package main

import (
	"net/http"

	"github.com/phrazzld/relay-api/internal/api"
)

// setupRouter assembles the request pipeline around the application's
// dispatch table.
func (app *application) setupRouter() (http.Handler, error) {
	return api.NewHandler(app.dependencies(), app.routes)
}
