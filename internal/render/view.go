package render

import (
	"time"

	"trainsite/internal/domain/config"
	"trainsite/internal/domain/site"
)

// PageData is what every template executes against. Context holds one of
// site.ItemContext, site.ListingContext or site.TrackContext.
type PageData struct {
	Site      config.SiteConfig
	BasePath  string
	Path      string
	Template  site.Template
	Context   any
	Generated time.Time
}

func NewPageData(cfg config.Config, p site.Page) PageData {
	return PageData{
		Site:      cfg.Site,
		BasePath:  cfg.Build.BasePath,
		Path:      p.Path,
		Template:  p.Template,
		Context:   p.Context,
		Generated: cfg.Build.Now,
	}
}
