package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/realmrecover/format"
	"github.com/arloliu/realmrecover/internal/testfile"
	"github.com/arloliu/realmrecover/report"
	"github.com/arloliu/realmrecover/section"
)

func writeImage(t *testing.T, dir string) string {
	t.Helper()

	b := testfile.New()
	flags := b.Ints(format.TagInt8, 1, 0)
	titles := b.Strings("buy milk", "call home")
	b.Strings("deleted todo")

	table := testfile.Table{
		Types:   []format.ColumnType{format.ColumnTypeBool, format.ColumnTypeString},
		Names:   []string{"done", "title"},
		Columns: []uint64{flags, titles},
	}
	root := b.Database(nil, table)
	b.Header(root, root, section.RootFlagA)

	path := filepath.Join(dir, "default.realm")
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o600))

	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := writeImage(t, dir)
	outDir := filepath.Join(dir, "report")
	db := filepath.Join(dir, "runs.db")

	var stdout bytes.Buffer
	err := run(context.Background(), []string{
		input,
		"--out-dir", outDir,
		"--compress", "zstd",
		"--sqlite", db,
		"--log-level", "error",
	}, &stdout)
	require.NoError(t, err)

	for _, name := range []string{report.CompareFile, report.DataStorageFile, report.ScanAllFile, report.ScanUnusedFile} {
		require.FileExists(t, filepath.Join(outDir, name+".zst"))
	}
	require.FileExists(t, filepath.Join(outDir, report.ManifestFile))
	require.FileExists(t, db)

	require.Contains(t, stdout.String(), "table information: match")
	require.NotContains(t, stdout.String(), "\x1b[")
}

func TestRun_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.realm")
	require.NoError(t, os.WriteFile(input, bytes.Repeat([]byte{0xFF}, 64), 0o600))

	var stdout bytes.Buffer
	err := run(context.Background(), []string{input, "--out-dir", dir, "--log-level", "error"}, &stdout)
	require.Error(t, err)
	require.Contains(t, err.Error(), "recovery of")
	require.NoFileExists(t, filepath.Join(dir, report.CompareFile))
}

func TestRun_MissingFile(t *testing.T) {
	err := run(context.Background(), []string{filepath.Join(t.TempDir(), "missing.realm")}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestParse_Defaults(t *testing.T) {
	input := writeImage(t, t.TempDir())

	var cli CLI
	parser, err := newParser(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{input})
	require.NoError(t, err)

	require.Equal(t, input, cli.File)
	require.Equal(t, "none", cli.Compress)
	require.Equal(t, 1024, cli.MaxDepth)
	require.Equal(t, 1<<20, cli.ChunkSize)
	require.Equal(t, "info", cli.LogLevel)
	require.Equal(t, "auto", cli.LogFormat)
	require.Empty(t, cli.SQLite)
}

func TestParse_Env(t *testing.T) {
	input := writeImage(t, t.TempDir())
	t.Setenv("REALM_RECOVER_COMPRESS", "lz4")
	t.Setenv("REALM_RECOVER_MAX_DEPTH", "64")

	var cli CLI
	parser, err := newParser(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{input, "--max-depth", "32"})
	require.NoError(t, err)

	require.Equal(t, "lz4", cli.Compress)
	require.Equal(t, 32, cli.MaxDepth, "flags win over the environment")
}

func TestParse_Config(t *testing.T) {
	dir := t.TempDir()
	input := writeImage(t, dir)
	config := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte(strings.Join([]string{
		"compress: s2",
		"max_depth: 256",
		"log-format: text",
		"no-color: true",
	}, "\n")), 0o600))

	var cli CLI
	parser, err := newParser(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{input, "--config", config, "--compress", "xz"})
	require.NoError(t, err)

	require.Equal(t, "xz", cli.Compress)
	require.Equal(t, 256, cli.MaxDepth)
	require.Equal(t, "text", cli.LogFormat)
	require.True(t, cli.NoColor)
}

func TestParse_InvalidEnum(t *testing.T) {
	input := writeImage(t, t.TempDir())

	var cli CLI
	parser, err := newParser(&cli, kong.Exit(func(int) {}))
	require.NoError(t, err)

	_, err = parser.Parse([]string{input, "--compress", "brotli"})
	require.Error(t, err)
}

func TestYAMLLoader(t *testing.T) {
	resolver, err := YAMLLoader(strings.NewReader("out-dir: /tmp/out\nchunk_size: 4096\nnested:\n  a: 1\n"))
	require.NoError(t, err)

	v, err := resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "out-dir"}})
	require.NoError(t, err)
	require.Equal(t, "/tmp/out", v)

	v, err = resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "chunk-size"}})
	require.NoError(t, err)
	require.Equal(t, "4096", v)

	v, err = resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "sqlite"}})
	require.NoError(t, err)
	require.Nil(t, v)

	_, err = resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "nested"}})
	require.Error(t, err)

	_, err = YAMLLoader(strings.NewReader("compress: [unterminated"))
	require.Error(t, err)
}
