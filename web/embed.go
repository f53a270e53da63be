// Package web embeds the HTML templates and static assets into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates static
var content embed.FS

// Templates returns the page templates rooted at the templates directory.
func Templates() fs.FS {
	return mustSub("templates")
}

// Static returns the static assets served under /static/.
func Static() fs.FS {
	return mustSub("static")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(content, dir)
	if err != nil {
		panic(err) // dir is a compile-time constant
	}
	return sub
}
