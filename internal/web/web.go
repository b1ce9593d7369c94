// Package web serves the embedded browser UI.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// RegisterRoutes mounts the UI at the root path.
func RegisterRoutes(r *gin.Engine) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServer(http.FS(sub))

	r.GET("/", func(c *gin.Context) {
		c.FileFromFS("index.html", http.FS(sub))
	})
	r.GET("/app.js", gin.WrapH(fileServer))
	r.GET("/styles.css", gin.WrapH(fileServer))
}
