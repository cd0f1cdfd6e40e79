package sitemap

import "errors"

// Domain errors for sitemap operations.
var (
	ErrNotFound     = errors.New("Sitemap not found")
	ErrAssetMissing = errors.New("Sitemap asset missing")
)
