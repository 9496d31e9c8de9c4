package render

import (
	"net/http"

	"github.com/gofiber/template/html/v2"
)

// NewViewEngine returns the fiber view engine over templateDir, or over the
// embedded templates when templateDir is empty.
func NewViewEngine(templateDir string) *html.Engine {
	var engine *html.Engine
	if templateDir != "" {
		engine = html.NewFileSystem(http.Dir(templateDir), ".html")
	} else {
		engine = html.NewFileSystem(http.FS(TemplateFS()), ".html")
	}
	engine.AddFuncMap(funcs)
	return engine
}
