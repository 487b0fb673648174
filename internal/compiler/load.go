package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// LoadFile compiles every saved search in a single CUE file.
func LoadFile(path string) ([]SavedSearch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read searches: %w", err)
	}
	v := cuecontext.New().CompileBytes(data, cue.Filename(path))
	return CompileAll(v)
}

// CompileAll compiles every field under the top-level search struct, in
// declaration order, stopping at the first error. A value without a search
// struct yields no searches.
func CompileAll(v cue.Value) ([]SavedSearch, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	sv := v.LookupPath(cue.ParsePath("search"))
	if !sv.Exists() {
		return nil, nil
	}
	iter, err := sv.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var searches []SavedSearch
	for iter.Next() {
		s, err := CompileSearch(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", iter.Selector(), err)
		}
		searches = append(searches, *s)
	}
	return searches, nil
}

// Find returns the search with the given name.
func Find(searches []SavedSearch, name string) (SavedSearch, bool) {
	for _, s := range searches {
		if s.Name == name {
			return s, true
		}
	}
	return SavedSearch{}, false
}
