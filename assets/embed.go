// assets/embed.go
//
// Files compiled into the binary:
//   - web/: the browser view (index.html, app.js, style.css).
//   - sql/: schema migrations applied at startup, in lexical order.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed web
var web embed.FS

//go:embed sql/*.sql
var migrations embed.FS

// Web returns the browser view rooted at web/.
func Web() fs.FS {
	sub, err := fs.Sub(web, "web")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	return sub
}

// Migrations returns the SQL migrations rooted at sql/.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
