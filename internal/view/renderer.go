package view

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// Template names of the kiosk views.
const (
	TemplateIdentify      = "Singup.html"
	TemplateSelectProject = "Ponto.html"
)

// ErrTemplateNotFound is returned when a template file does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// Renderer fills static HTML files. Placeholders are literal `{{key}}`
// tokens; values are inserted verbatim, without escaping, and are never
// scanned for further placeholders.
type Renderer struct {
	dir   string
	cache *lru.Cache
}

// NewRenderer creates a renderer for the templates in `dir`. When
// `cacheSize` is positive, raw template bytes are kept in an LRU cache and
// later edits to the files are not picked up.
func NewRenderer(dir string, cacheSize int) (*Renderer, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "opening templates directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("templates path %s is not a directory", dir)
	}
	r := &Renderer{dir: dir}
	if cacheSize > 0 {
		r.cache, err = lru.New(cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create lru cache")
		}
	}
	return r, nil
}

// Render returns template `name` with `vars` substituted.
func (r *Renderer) Render(name string, vars map[string]string) ([]byte, error) {
	raw, err := r.load(name)
	if err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		return raw, nil
	}
	return []byte(Substitute(string(raw), vars)), nil
}

func (r *Renderer) load(name string) ([]byte, error) {
	name = filepath.Base(name)
	if r.cache != nil {
		if val, ok := r.cache.Get(name); ok {
			return val.([]byte), nil
		}
	}
	path := filepath.Join(r.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, errors.Wrap(ErrTemplateNotFound, name)
	}
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading template %s", name)
	}
	if r.cache != nil {
		r.cache.Add(name, raw)
	}
	return raw, nil
}

// Substitute replaces every `{{key}}` in `text` with its value in one pass.
func Substitute(text string, vars map[string]string) string {
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
