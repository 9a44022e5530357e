package dataset

import (
	"path/filepath"
	"strings"
)

// Loader reads one on-disk format into a Dataset.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt Options) (*Dataset, error)
}

// Writer writes a Dataset back in the format it was read from.
type Writer interface {
	CanWrite(f Format) bool
	Encode(d *Dataset) ([]byte, error)
}

var (
	loaders []Loader
	writers []Writer
)

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	loaders = append(loaders, l)
}

// RegisterWriter adds a writer implementation to the registry.
func RegisterWriter(w Writer) {
	writers = append(writers, w)
}

// Load selects a loader by filename. Unknown extensions are read as comma-delimited text.
func Load(path string, opt Options) (*Dataset, error) {
	for _, l := range loaders {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return delimitedLoader{}.Load(path, opt)
}

// Encode renders d in its source format.
func Encode(d *Dataset) ([]byte, error) {
	for _, w := range writers {
		if w.CanWrite(d.Format) {
			return w.Encode(d)
		}
	}
	return delimitedWriter{}.Encode(d)
}

// HasCSVExtension reports whether a filename ends in .csv.
func HasCSVExtension(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

func init() {
	Register(delimitedLoader{})
	Register(xlsxLoader{})
	RegisterWriter(delimitedWriter{})
	RegisterWriter(xlsxWriter{})
}
