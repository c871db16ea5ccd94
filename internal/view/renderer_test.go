package view

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	dir, err := ioutil.TempDir("", "ponto-view")
	require.NoError(t, err)
	for name, content := range files {
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestRender(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"plain.html":     "<p>no tokens { here }</p>",
		"greet.html":     "Hi {{usuario}}, {{usuario}}!",
		"options.html":   "<select>{{lista_projetos}}</select>{{erro}}",
		"unknown.html":   "{{a}} {{b}} {{ a }}",
		"recursive.html": "{{a}}|{{b}}",
	})
	defer os.RemoveAll(dir)

	r, err := NewRenderer(dir, 0)
	require.NoError(t, err)

	tests := []struct {
		name     string
		template string
		vars     map[string]string
		want     string
	}{
		{"no vars is raw content", "plain.html", nil, "<p>no tokens { here }</p>"},
		{"empty vars is raw content", "greet.html", map[string]string{}, "Hi {{usuario}}, {{usuario}}!"},
		{"every occurrence replaced", "greet.html", map[string]string{"usuario": "Ana"}, "Hi Ana, Ana!"},
		{"values not escaped", "options.html",
			map[string]string{"lista_projetos": "<option value='Projeto X'>Projeto X</option>", "erro": ""},
			"<select><option value='Projeto X'>Projeto X</option></select>"},
		{"exact match only", "unknown.html", map[string]string{"a": "1"}, "1 {{b}} {{ a }}"},
		{"inserted values not substituted", "recursive.html",
			map[string]string{"a": "{{b}}", "b": "{{a}}"}, "{{b}}|{{a}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Render(tt.template, tt.vars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRenderNotFound(t *testing.T) {
	dir := writeFiles(t, nil)
	defer os.RemoveAll(dir)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.html"), 0755))

	r, err := NewRenderer(dir, 4)
	require.NoError(t, err)

	for _, name := range []string{"missing.html", "sub.html", "../missing.html"} {
		_, err = r.Render(name, nil)
		assert.Equal(t, ErrTemplateNotFound, errors.Cause(err), name)
	}

	_, err = NewRenderer(filepath.Join(dir, "nope"), 0)
	assert.Error(t, err)
}

func TestRenderCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{TemplateIdentify: "v1 {{msg}}"})
	defer os.RemoveAll(dir)

	cached, err := NewRenderer(dir, 2)
	require.NoError(t, err)
	uncached, err := NewRenderer(dir, 0)
	require.NoError(t, err)

	got, err := cached.Render(TemplateIdentify, map[string]string{"msg": "ok"})
	require.NoError(t, err)
	assert.Equal(t, "v1 ok", string(got))

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, TemplateIdentify), []byte("v2 {{msg}}"), 0644))

	got, err = cached.Render(TemplateIdentify, map[string]string{"msg": "ok"})
	require.NoError(t, err)
	assert.Equal(t, "v1 ok", string(got))

	got, err = uncached.Render(TemplateIdentify, map[string]string{"msg": "ok"})
	require.NoError(t, err)
	assert.Equal(t, "v2 ok", string(got))
}

func TestSubstitute(t *testing.T) {
	assert.Equal(t, "Hi Ana, Ana!", Substitute("Hi {{usuario}}, {{usuario}}!", map[string]string{"usuario": "Ana"}))
	assert.Equal(t, "{{usuario}}", Substitute("{{usuario}}", nil))
}
