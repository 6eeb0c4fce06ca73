package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/watertower/pkg/errors"
	"github.com/matzehuels/watertower/pkg/skyline"
)

type document struct {
	MaxHeight int   `json:"max_height,omitempty"`
	Heights   []int `json:"heights"`
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', ',', ';', '|':
		return true
	}
	return false
}

// ParseHeights parses a list of integers separated by whitespace, commas,
// semicolons or pipes, e.g. "2,5,1" or "2 | 5 | 1".
func ParseHeights(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, isSeparator)
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no heights given")
	}
	heights := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "column %d: %q is not an integer", i, f)
		}
		heights[i] = v
	}
	return heights, nil
}

// ParseArgs parses command-line arguments, each of which may itself hold
// several separated heights.
func ParseArgs(args []string) ([]int, error) {
	return ParseHeights(strings.Join(args, " "))
}

// ReadHeightmap decodes a heightmap from r. A max_height carried by a JSON
// document takes precedence over maxHeight. ReadHeightmap does not close r.
func ReadHeightmap(r io.Reader, maxHeight int) (*skyline.Heightmap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read heights")
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(trimmed, []byte("[")):
		var heights []int
		if err := json.Unmarshal(trimmed, &heights); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode heights")
		}
		return skyline.New(heights, maxHeight)

	case bytes.HasPrefix(trimmed, []byte("{")):
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode heightmap")
		}
		if doc.MaxHeight > 0 {
			maxHeight = doc.MaxHeight
		}
		return skyline.New(doc.Heights, maxHeight)
	}

	var b strings.Builder
	for _, line := range strings.Split(string(trimmed), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	heights, err := ParseHeights(b.String())
	if err != nil {
		return nil, err
	}
	return skyline.New(heights, maxHeight)
}

// ImportFile reads a heightmap from the file at path.
func ImportFile(path string, maxHeight int) (*skyline.Heightmap, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return ReadHeightmap(f, maxHeight)
}
