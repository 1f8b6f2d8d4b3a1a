package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var static embed.FS

// Embedded returns the sprite sheets compiled into the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
