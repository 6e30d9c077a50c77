package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, text string) string {
	t.Helper()
	p := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, `mode: mdcrd2gro
input: md.mdcrd
template: system.gro
output: /abs/md.gro
box: true
begin: 2
end: 10
offset: 2
overwrite: true
`)
	j, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, MToGRO, j.Mode)
	require.Equal(t, filepath.Join(dir, "md.mdcrd"), j.Input)
	require.Equal(t, filepath.Join(dir, "system.gro"), j.Template)
	require.Equal(t, "/abs/md.gro", j.Output)
	require.True(t, j.Box)
	require.True(t, j.Overwrite)
	require.Equal(t, 2, j.Begin)
	require.Equal(t, 10, j.End)
	require.Equal(t, 2, j.Offset)
	require.Empty(t, j.TempDir)
}

func TestLoadDCD(t *testing.T) {
	dir := t.TempDir()
	j, err := Load(write(t, dir, "mode: gro2dcd\ninput: md.gro\noutput: md.dcd\ntitle: run 1\ntemp_dir: scratch\n"))
	require.NoError(t, err)
	require.Equal(t, GROToD, j.Mode)
	require.Equal(t, "run 1", j.Title)
	require.Equal(t, filepath.Join(dir, "scratch"), j.TempDir)
	require.False(t, j.Box)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"unknown key":      "mode: gro2mdcrd\ninput: a.gro\noutput: b.mdcrd\ncolour: blue\n",
		"unknown mode":     "mode: trr2nc\ninput: a\noutput: b\n",
		"no template":      "mode: mdcrd2gro\ninput: a.mdcrd\noutput: b.gro\n",
		"no output":        "mode: gro2mdcrd\ninput: a.gro\n",
		"same file":        "mode: gro2mdcrd\ninput: a.gro\noutput: a.gro\n",
		"negative":         "mode: gro2mdcrd\ninput: a.gro\noutput: b.mdcrd\nbegin: -1\n",
		"end before begin": "mode: gro2mdcrd\ninput: a.gro\noutput: b.mdcrd\nbegin: 5\nend: 5\n",
		"not yaml":         "mode: [\n",
		"dcd no template":  "mode: dcd2gro\ninput: a.dcd\noutput: b.gro\n",
		"box with dcd":     "mode: dcd2gro\ninput: a.dcd\ntemplate: t.gro\noutput: b.gro\nbox: true\n",
	}
	for name, text := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, t.TempDir(), text))
			require.Error(t, err)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestModes(t *testing.T) {
	modes := map[Mode]string{
		MToGRO:   "mode: mdcrd2gro\ninput: a.mdcrd\ntemplate: a.gro\noutput: b.gro\n",
		MToMdcrd: "mode: gro2mdcrd\ninput: a.gro\noutput: b.mdcrd\n",
		DToGRO:   "mode: dcd2gro\ninput: a.dcd\ntemplate: a.gro\noutput: b.gro\n",
		GROToD:   "mode: gro2dcd\ninput: a.gro\noutput: b.dcd\n",
	}
	for m, text := range modes {
		j, err := Load(write(t, t.TempDir(), text))
		require.NoError(t, err, m)
		require.Equal(t, m, j.Mode)
	}
}
