// Package handler hosts the Vercel serverless entrypoints. Each file under
// api/ builds into one function exporting a net/http handler; vercel.json
// rewrites inbound paths onto the functions, so the routers here see the
// original request paths.
package handler

import (
	"net/http"
	"sync"

	"github.com/janisto/vercel-playground/internal/app"
)

var (
	indexOnce   sync.Once
	indexRouter http.Handler
)

// Index serves the landing API: the fixed JSON routes and their docs. Every
// path not rewritten to the Telegram function lands here.
func Index(w http.ResponseWriter, r *http.Request) {
	indexOnce.Do(func() {
		indexRouter = newIndexHandler()
	})
	indexRouter.ServeHTTP(w, r)
}

func newIndexHandler() http.Handler {
	router := app.NewRouter()
	app.MountIndex(router, app.ResolveVersion(""))
	return router
}
