// Package convert turns a directory tree of camcorder recordings into MP4
// files: it finds the sources, hands each one to a bounded pool of workers
// running ffmpeg, removes sources that converted cleanly and logs one
// outcome per file.
package convert

import (
	"path/filepath"
	"strings"
)

// DefaultExtension is the source extension matched when none is configured.
const DefaultExtension = ".MTS"

// OutputExtension replaces the source extension on destination files.
const OutputExtension = ".mp4"

// WorkItem is one source file and the file it converts to.
type WorkItem struct {
	Source      string
	Destination string
}

// NewWorkItem places the destination for source in outputDir, keeping the
// stem of the base name and appending OutputExtension. The source's own
// directory structure is not mirrored.
func NewWorkItem(source, outputDir string) WorkItem {
	return WorkItem{
		Source:      source,
		Destination: filepath.Join(outputDir, stem(filepath.Base(source))+OutputExtension),
	}
}

// stem strips the last extension from name. Leading dots do not start an
// extension, so ".MTS" is its own stem.
func stem(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || strings.Trim(name[:i], ".") == "" {
		return name
	}
	return name[:i]
}
