package folio_test

import (
	"testing/fstest"
	"time"
)

// templateFS builds an in-memory template directory from path/contents
// pairs. Normally you'd use embed.FS or os.DirFS.
func templateFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, contents := range files {
		fsys[name] = &fstest.MapFile{
			Data:    []byte(contents),
			Mode:    0o444,
			ModTime: time.Unix(0, 0),
		}
	}
	return fsys
}
