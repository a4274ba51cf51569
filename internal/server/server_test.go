package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirHasLuaFilesTrueWhenLuaFilePresent(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "wave.lua"), []byte("-- empty"), 0o644); err != nil {
		t.Fatal(err)
	}

	assert.True(t, dirHasLuaFiles(dir))
}

func TestDirHasLuaFilesFalseWhenDirMissing(t *testing.T) {
	assert.False(t, dirHasLuaFiles(filepath.Join(t.TempDir(), "does-not-exist")))
}

func TestDirHasLuaFilesFalseWhenOnlyOtherFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	assert.False(t, dirHasLuaFiles(dir))
}

func TestDirHasLuaFilesIgnoresSubdirectoryNamedLua(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "sub.lua"), 0o755); err != nil {
		t.Fatal(err)
	}

	assert.False(t, dirHasLuaFiles(dir))
}
