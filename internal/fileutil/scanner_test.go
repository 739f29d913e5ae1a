package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCandidates(t *testing.T) {
	tmpDir := t.TempDir()

	// tmpDir/
	//   CoreTests.exe
	//   core_tests.exe
	//   helper.dll
	//   Readme.md
	//   Release/
	//     ReleaseTests.exe
	//   .hidden/
	//     HiddenTests.exe
	testFiles := []string{
		"CoreTests.exe",
		"core_tests.exe",
		"helper.dll",
		"Readme.md",
		"Release/ReleaseTests.exe",
		".hidden/HiddenTests.exe",
	}
	for _, f := range testFiles {
		path := filepath.Join(tmpDir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
	}

	tests := []struct {
		name      string
		glob      string
		opts      FindOptions
		wantNames []string
	}{
		{
			name:      "case sensitive suffix",
			glob:      "*Tests.exe",
			wantNames: []string{"CoreTests.exe"},
		},
		{
			name:      "case insensitive suffix",
			glob:      "*tests.exe",
			opts:      FindOptions{CaseInsensitive: true},
			wantNames: []string{"CoreTests.exe", "core_tests.exe"},
		},
		{
			name:      "recursive skips hidden directories",
			glob:      "*Tests.exe",
			opts:      FindOptions{Recursive: true},
			wantNames: []string{"CoreTests.exe", "ReleaseTests.exe"},
		},
		{
			name:      "single character wildcard",
			glob:      "helper.?ll",
			wantNames: []string{"helper.dll"},
		},
		{
			name:      "alternatives",
			glob:      "{helper.dll,Readme.md}",
			wantNames: []string{"Readme.md", "helper.dll"},
		},
		{
			name:      "no match",
			glob:      "*.so",
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates, err := FindCandidates(tmpDir, tt.glob, tt.opts)
			require.NoError(t, err)

			names := make([]string, 0, len(candidates))
			for _, c := range candidates {
				assert.True(t, filepath.IsAbs(c.Path), "path should be absolute: %s", c.Path)
				assert.Equal(t, int64(len("content")), c.Size)
				assert.False(t, c.ModTime.IsZero())
				names = append(names, filepath.Base(c.Path))
			}
			assert.ElementsMatch(t, tt.wantNames, names)
		})
	}
}

func TestFindCandidates_SortedOutput(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"c.exe", "a.exe", "b.exe"} {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), nil, 0644))
	}

	candidates, err := FindCandidates(tmpDir, "*.exe", FindOptions{})
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	for i := 1; i < len(candidates); i++ {
		assert.Less(t, candidates[i-1].Path, candidates[i].Path)
	}
}

func TestFindCandidates_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file.txt")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := FindCandidates(filepath.Join(tmpDir, "missing"), "*", FindOptions{})
	assert.Error(t, err)

	_, err = FindCandidates(file, "*", FindOptions{})
	assert.ErrorContains(t, err, "not a directory")

	_, err = FindCandidates(tmpDir, "[abc", FindOptions{})
	assert.ErrorContains(t, err, "invalid file pattern")
}
