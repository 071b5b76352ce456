package sigbind_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/sigbind/pkg/sigbind"
)

func TestParseAndBind(t *testing.T) {
	s, err := sigbind.Parse("(first, second, third)")
	require.NoError(t, err)

	m, err := sigbind.Bind(s, sigbind.DefaultTypes(), nil, []interface{}{1, 2, 3})
	require.NoError(t, err)
	v, err := m.Get("second")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestParseMethodInjectsInvocant(t *testing.T) {
	s, err := sigbind.ParseMethod("(x)")
	require.NoError(t, err)
	assert.Equal(t, "(self: x)", s.String())
}

const manifest = `
namespace: geometry
constraints:
  - name: Size
    base: Str
    one_of: [small, medium, large]
methods:
  - name: resize
    signature: "(:size = build_param_size, :height = 170)"
    check_args: check_resize
    body: resize_body
  - name: scale
    signature: "(Size mode, Num factor)"
    body: scale_body
`

func TestManifestCheck(t *testing.T) {
	mf, err := sigbind.LoadManifest([]byte(manifest))
	require.NoError(t, err)
	assert.Equal(t, "geometry", mf.Namespace)

	problems, err := mf.Check()
	require.NoError(t, err)
	assert.Empty(t, problems)
}

func TestManifestCheckReportsErrors(t *testing.T) {
	mf, err := sigbind.LoadManifest([]byte(`
namespace: broken
methods:
  - name: bad_syntax
    signature: "(*a, b)"
  - name: bad_type
    signature: "(Bogus x)"
  - name: fine
    signature: "(x)"
`))
	require.NoError(t, err)

	problems, err := mf.Check()
	require.NoError(t, err)
	assert.Len(t, problems, 2)
	assert.Contains(t, problems, "bad_syntax")
	assert.Contains(t, problems, "bad_type")
	assert.NotContains(t, problems, "fine")
}

func TestManifestDeclareEndToEnd(t *testing.T) {
	mf, err := sigbind.LoadManifest([]byte(manifest))
	require.NoError(t, err)

	reg, err := mf.Types()
	require.NoError(t, err)
	ns := sigbind.NewNamespaceWithTypes(mf.Namespace, reg)

	ns.RegisterBuilder("build_param_size", func(m *sigbind.BoundMap) (interface{}, error) {
		h, err := m.Get("height")
		if err != nil {
			return nil, err
		}
		return h.(int64) - 20, nil
	})
	ns.RegisterCheckArgs("check_resize", func(m *sigbind.BoundMap) error { return nil })
	ns.RegisterBody("resize_body", func(m *sigbind.BoundMap, _ []interface{}) (interface{}, error) {
		return m.Get("size")
	})
	ns.RegisterBody("scale_body", func(m *sigbind.BoundMap, _ []interface{}) (interface{}, error) {
		return m.Values("mode", "factor")
	})

	require.NoError(t, mf.Declare(ns))
	require.NoError(t, ns.Finalize())

	out, err := ns.Call("resize")
	require.NoError(t, err)
	assert.Equal(t, int64(150), out)

	out, err = ns.Call("scale", "medium", 1.5)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"medium", 1.5}, out)

	_, err = ns.Call("scale", "gigantic", 1.5)
	require.Error(t, err, "manifest constraint must reject values outside its set")
}

func TestLoadManifestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sigbind.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))

	mf, err := sigbind.LoadManifestFile(path)
	require.NoError(t, err)
	assert.Len(t, mf.Methods, 2)

	_, err = sigbind.LoadManifestFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadManifestValidation(t *testing.T) {
	_, err := sigbind.LoadManifest([]byte(`methods: [{name: f, signature: "()"}]`))
	assert.Error(t, err, "namespace is required")

	_, err = sigbind.LoadManifest([]byte("namespace: x\nmethods: [{signature: \"()\"}]"))
	assert.Error(t, err, "method name is required")

	_, err = sigbind.LoadManifest([]byte(`{{`))
	assert.Error(t, err)
}
