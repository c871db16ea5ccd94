package view

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrAssetNotFound is returned when a static file does not exist.
var ErrAssetNotFound = errors.New("asset not found")

// Assets serves files from a flat directory, looked up by basename only.
type Assets struct {
	dir string
}

// NewAssets creates an asset directory. A missing directory is not an error,
// every lookup then misses.
func NewAssets(dir string) *Assets {
	return &Assets{dir: dir}
}

// Get returns the whole content of `name` and its content type. Nothing is
// returned unless the file could be read completely.
func (a *Assets) Get(name string) ([]byte, string, error) {
	name = filepath.Base(filepath.Clean("/" + name))
	if name == "/" || name == "." {
		return nil, "", errors.Wrap(ErrAssetNotFound, "empty name")
	}
	path := filepath.Join(a.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, "", errors.Wrap(ErrAssetNotFound, name)
	}
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "reading asset %s", name)
	}
	return b, ContentType(name), nil
}

// ContentType infers an image content type from a file extension.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
