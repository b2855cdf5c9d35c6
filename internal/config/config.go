// Package config loads the optional .sortdebug.hcl file that sets defaults
// for the sortdebug command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/tjun/sortdebug/internal/sorter"
)

// DefaultFilename is looked up in the working directory when no config
// path is given.
const DefaultFilename = ".sortdebug.hcl"

// Settings is the resolved configuration of a run.
type Settings struct {
	Sort       sorter.SortOptions
	Color      bool
	Extensions []string // file extensions picked up when walking directories
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Sort:       sorter.DefaultSortOptions(),
		Color:      false,
		Extensions: []string{".debug", ".txt", ".json", ".hcl"},
	}
}

// File mirrors the attributes of a config file. Attributes left out of the
// file are nil and keep their default.
type File struct {
	SortLists  *bool    `hcl:"sort_lists,optional"`
	SortTuples *bool    `hcl:"sort_tuples,optional"`
	Color      *bool    `hcl:"color,optional"`
	Extensions []string `hcl:"extensions,optional"`
}

// Load decodes the config file at path. A missing file is not an error when
// optional is set; Load then returns an empty File.
func Load(path string, optional bool) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Decode(path, src)
}

// Decode decodes config file content. filename is used for context in
// error messages.
func Decode(filename string, src []byte) (*File, error) {
	var f File
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", filename, err)
	}
	return &f, nil
}

// Apply overrides s with every attribute set in f.
func (f *File) Apply(s Settings) Settings {
	if f.SortLists != nil {
		s.Sort.SortLists = *f.SortLists
	}
	if f.SortTuples != nil {
		s.Sort.SortTuples = *f.SortTuples
	}
	if f.Color != nil {
		s.Color = *f.Color
	}
	if f.Extensions != nil {
		s.Extensions = slices.Clone(f.Extensions)
	}
	return s
}

// Render writes s as config file content.
func Render(s Settings) []byte {
	file := hclwrite.NewEmptyFile()
	body := file.Body()
	body.SetAttributeValue("sort_lists", cty.BoolVal(s.Sort.SortLists))
	body.SetAttributeValue("sort_tuples", cty.BoolVal(s.Sort.SortTuples))
	body.SetAttributeValue("color", cty.BoolVal(s.Color))

	exts := make([]cty.Value, 0, len(s.Extensions))
	for _, ext := range s.Extensions {
		exts = append(exts, cty.StringVal(ext))
	}
	if len(exts) == 0 {
		body.SetAttributeValue("extensions", cty.ListValEmpty(cty.String))
	} else {
		body.SetAttributeValue("extensions", cty.ListVal(exts))
	}
	return file.Bytes()
}
