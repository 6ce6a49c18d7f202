package view

import (
	"fmt"

	"golang.org/x/exp/mmap"
)

// Open memory-maps the file at path read-only and returns a View that owns the mapping.
// The caller must Close the view when done.
func Open(path string) (*View, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to map %s: %w", path, err)
	}

	v := New(r)
	v.closer = r

	return v, nil
}
