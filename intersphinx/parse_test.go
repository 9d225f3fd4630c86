package intersphinx_test

import (
	"bytes"
	"compress/zlib"
	"strings"
	"testing"

	"github.com/fwojciec/docdex"
	"github.com/fwojciec/docdex/intersphinx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildV2(t *testing.T, project, version string, lines ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.WriteString("# Sphinx inventory version 2\n")
	buf.WriteString("# Project: " + project + "\n")
	buf.WriteString("# Version: " + version + "\n")
	buf.WriteString("# The remainder of this file is compressed using zlib.\n")

	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func TestParse_V2(t *testing.T) {
	t.Parallel()

	payload := buildV2(t, "Python", "3.9",
		"zlib.compress py:function 1 library/zlib.html#$ -",
		"zlib py:module 0 library/zlib.html#module-zlib -",
		"installing-index std:doc -1 installing/index.html Installing Python Modules",
		"available installers std:label -1 using/windows.html#available-installers -",
	)

	inv, err := intersphinx.Parse(bytes.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, "Python", inv.ProjectName)
	assert.Equal(t, "3.9", inv.Version)
	require.Len(t, inv.Entries, 4)

	first := inv.Entries[0]
	assert.Equal(t, "zlib.compress", first.Name)
	assert.Equal(t, "py:function", first.Type)
	assert.Equal(t, "function", first.Group())
	assert.Equal(t, 1, first.Priority)

	path, anchor := first.Location()
	assert.Equal(t, "library/zlib.html", path)
	assert.Equal(t, "zlib.compress", anchor)

	// Names may contain spaces.
	label := inv.Entries[3]
	assert.Equal(t, "available installers", label.Name)
	assert.Equal(t, "std:label", label.Type)

	// Display names may too.
	doc := inv.Entries[2]
	assert.Equal(t, "Installing Python Modules", doc.DisplayName)
}

func TestParse_V2_PreservesEntryOrder(t *testing.T) {
	t.Parallel()

	payload := buildV2(t, "p", "1",
		"b py:class 1 api.html#$ -",
		"a py:class 1 api.html#$ -",
		"c py:class 1 api.html#$ -",
	)

	inv, err := intersphinx.Parse(bytes.NewReader(payload))
	require.NoError(t, err)

	names := make([]string, 0, len(inv.Entries))
	for _, e := range inv.Entries {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
}

func TestParse_V2_SkipsUnparseableLines(t *testing.T) {
	t.Parallel()

	payload := buildV2(t, "p", "1",
		"good py:function 1 api.html#$ -",
		"incomplete line",
		"noprefix function 1 api.html#$ -",
		"badprio py:function x api.html#$ -",
	)

	inv, err := intersphinx.Parse(bytes.NewReader(payload))
	require.NoError(t, err)

	require.Len(t, inv.Entries, 1)
	assert.Equal(t, "good", inv.Entries[0].Name)
}

func TestParse_V1(t *testing.T) {
	t.Parallel()

	payload := "# Sphinx inventory version 1\n" +
		"# Project: Example\n" +
		"# Version: 2.0\n" +
		"zlib mod library/zlib.html\n" +
		"zlib.compress function library/zlib.html\n"

	inv, err := intersphinx.Parse(strings.NewReader(payload))
	require.NoError(t, err)

	assert.Equal(t, "Example", inv.ProjectName)
	require.Len(t, inv.Entries, 2)

	mod := inv.Entries[0]
	assert.Equal(t, "py:module", mod.Type)
	path, anchor := mod.Location()
	assert.Equal(t, "library/zlib.html", path)
	assert.Equal(t, "module-zlib", anchor)

	fn := inv.Entries[1]
	assert.Equal(t, "py:function", fn.Type)
	_, anchor = fn.Location()
	assert.Equal(t, "zlib.compress", anchor)
}

func TestParse_MalformedHeader(t *testing.T) {
	t.Parallel()

	_, err := intersphinx.Parse(strings.NewReader("not an inventory\n"))
	require.Error(t, err)
	assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
}

func TestParse_UnsupportedVersion(t *testing.T) {
	t.Parallel()

	payload := "# Sphinx inventory version 9\n# Project: p\n# Version: 1\n"
	_, err := intersphinx.Parse(strings.NewReader(payload))
	require.Error(t, err)
	assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
}

func TestParse_CorruptCompression(t *testing.T) {
	t.Parallel()

	payload := "# Sphinx inventory version 2\n" +
		"# Project: p\n" +
		"# Version: 1\n" +
		"# The remainder of this file is compressed using zlib.\n" +
		"this is not zlib data"

	_, err := intersphinx.Parse(strings.NewReader(payload))
	require.Error(t, err)
	assert.Equal(t, docdex.EINVALID, docdex.ErrorCode(err))
}
