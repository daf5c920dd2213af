package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s Scanner, root string) []WorkItem {
	t.Helper()
	var items []WorkItem
	require.NoError(t, s.Scan(context.Background(), root, func(item WorkItem) error {
		items = append(items, item)
		return nil
	}))
	sort.Slice(items, func(i, j int) bool { return items[i].Source < items[j].Source })
	return items
}

func TestNewWorkItem(t *testing.T) {
	item := NewWorkItem(filepath.Join("cam", "2024", "clip1.MTS"), "converted")
	assert.Equal(t, filepath.Join("cam", "2024", "clip1.MTS"), item.Source)
	assert.Equal(t, filepath.Join("converted", "clip1.mp4"), item.Destination)

	item = NewWorkItem("holiday.part1.MTS", "out")
	assert.Equal(t, filepath.Join("out", "holiday.part1.mp4"), item.Destination)
}

func TestStem(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"clip.MTS", "clip"},
		{"holiday.part1.MTS", "holiday.part1"},
		{".MTS", ".MTS"},
		{"..MTS", "..MTS"},
		{".hidden.MTS", ".hidden"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stem(tt.name))
		})
	}

	item := NewWorkItem(filepath.Join("cam", ".MTS"), "out")
	assert.Equal(t, filepath.Join("out", ".MTS.mp4"), item.Destination)
}

func TestScanner_Match(t *testing.T) {
	s := Scanner{Extension: ".MTS"}
	tests := []struct {
		name string
		want bool
	}{
		{"clip.MTS", true},
		{"clip.mts", false},
		{"clip.Mts", false},
		{"clip.MTS.bak", false},
		{"clip.mp4", false},
		{"MTS", false},
		{".MTS", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Match(tt.name))
		})
	}
}

func TestScanner_MatchDefaultExtension(t *testing.T) {
	assert.True(t, Scanner{}.Match("clip.MTS"))
	assert.False(t, Scanner{}.Match("clip.m2ts"))
}

func TestScan_RecursiveAndFiltered(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "clip1.MTS"))
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "a", "clip2.MTS"))
	touch(t, filepath.Join(root, "a", "b", "c", "clip3.MTS"))
	touch(t, filepath.Join(root, "a", "lower.mts"))
	touch(t, filepath.Join(root, "a", "b", "other.mp4"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir.MTS"), 0o755))

	items := collect(t, Scanner{Extension: ".MTS", OutputDir: "out"}, root)

	require.Len(t, items, 3)
	assert.Equal(t, WorkItem{
		Source:      filepath.Join(root, "a", "b", "c", "clip3.MTS"),
		Destination: filepath.Join("out", "clip3.mp4"),
	}, items[0])
	assert.Equal(t, filepath.Join(root, "a", "clip2.MTS"), items[1].Source)
	assert.Equal(t, filepath.Join(root, "clip1.MTS"), items[2].Source)
}

func TestScan_CustomExtension(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "clip.m2ts"))
	touch(t, filepath.Join(root, "clip.MTS"))

	items := collect(t, Scanner{Extension: ".m2ts", OutputDir: "out"}, root)
	require.Len(t, items, 1)
	assert.Equal(t, filepath.Join("out", "clip.mp4"), items[0].Destination)
}

func TestScan_EmptyTree(t *testing.T) {
	assert.Empty(t, collect(t, Scanner{}, t.TempDir()))
}

func TestScan_InvalidRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "clip.MTS")
	touch(t, file)

	tests := []struct {
		name string
		root string
	}{
		{"missing", filepath.Join(root, "nope")},
		{"regular file", file},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			err := Scanner{}.Scan(context.Background(), tt.root, func(WorkItem) error {
				called = true
				return nil
			})
			assert.ErrorIs(t, err, ErrInvalidRoot)
			assert.False(t, called)
		})
	}
}

func TestScan_StopsOnCallbackError(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.MTS"))
	touch(t, filepath.Join(root, "b.MTS"))

	calls := 0
	err := Scanner{}.Scan(context.Background(), root, func(WorkItem) error {
		calls++
		return errBoom
	})
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, 1, calls)
}

func TestScan_StopsOnCancel(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a.MTS"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Scanner{}.Scan(ctx, root, func(WorkItem) error {
		t.Fatal("callback called after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
