package render

import (
	"context"

	"trainsite/internal/domain/site"
)

type Renderer interface {
	Render(ctx context.Context, tmpl site.Template, page PageData) ([]byte, error)
}
