// Package templates renders email messages from markdown files with YAML
// front matter.
//
// A template looks like:
//
//	---
//	subject: "{{.FirstName}}, you are invited"
//	---
//	Hi {{.FirstName}},
//
//	we would love to see you at our upcoming event.
//
// The body and the subject are text/template sources executed with the
// caller's data; the body is then converted to HTML with goldmark and
// wrapped into the templ Layout component. Parsed templates are cached per
// Renderer.
//
// Default serves the built-in invitation templates stored under
// invitation/default/<salutation>.md. RenderFirst walks a list of candidate
// names and renders the first one that exists, which lets callers keep
// per-contact overrides next to the defaults.
package templates
