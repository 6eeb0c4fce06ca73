package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/watertower/pkg/skyline"
)

// WriteHeightmap encodes h as an indented JSON document.
func WriteHeightmap(h *skyline.Heightmap, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{MaxHeight: h.MaxHeight(), Heights: h.Heights()}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportFile writes h to a JSON file at path.
func ExportFile(h *skyline.Heightmap, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteHeightmap(h, f)
}
