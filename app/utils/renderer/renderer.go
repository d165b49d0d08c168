package renderer

import (
	"github.com/unrolled/render"
)

func New(isDev bool) *render.Render {
	return render.New(render.Options{
		IndentJSON:    isDev,
		UnEscapeHTML:  true,
		IsDevelopment: isDev,
	})
}
