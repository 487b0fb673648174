package store

import (
	"fmt"

	"github.com/roach88/wavescan/internal/logic"
)

// marshalValue converts a value to its radix-2 TEXT form for storage.
func marshalValue(v logic.Value) string {
	return v.Format(2)
}

// unmarshalValue parses radix-2 TEXT and checks it against the series width.
func unmarshalValue(text string, width int) (logic.Value, error) {
	v, err := logic.Parse(text, 2)
	if err != nil {
		return logic.Value{}, fmt.Errorf("unmarshal value: %w", err)
	}
	if v.Width() != width {
		return logic.Value{}, fmt.Errorf("unmarshal value: %q has width %d, series width is %d", text, v.Width(), width)
	}
	return v, nil
}
