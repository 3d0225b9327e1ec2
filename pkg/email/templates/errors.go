package templates

import "errors"

var (
	ErrTemplateNotFound   = errors.New("templates.errors.template_not_found")
	ErrRenderFailed       = errors.New("templates.errors.render_failed")
	ErrInvalidFrontmatter = errors.New("templates.errors.invalid_frontmatter")
)
