// Package static serves public assets from one or more file systems.
//
// Layers are consulted in order, so a project's public directory can shadow
// the assets shipped with a theme:
//
//	h := static.Handler(
//	    []fs.FS{static.Dir("public"), theme.Assets},
//	    static.WithStripPrefix(static.Prefix),
//	)
//	r.Handle(static.Prefix+"/*", h)
//
// Directory listing is disabled; a directory is only served when it contains
// an index.html.
package static
