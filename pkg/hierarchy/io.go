package hierarchy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalForest serializes a forest as indented JSON.
func MarshalForest(f Forest) ([]byte, error) {
	return json.MarshalIndent(f, "", "  ")
}

// UnmarshalForest parses a forest and validates both trees.
func UnmarshalForest(data []byte) (Forest, error) {
	return ReadForest(bytes.NewReader(data))
}

// ReadForest decodes a forest from r and validates both trees.
func ReadForest(r io.Reader) (Forest, error) {
	var f Forest
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return Forest{}, fmt.Errorf("decode hierarchy: %w", err)
	}
	for _, kind := range Kinds {
		root := f.Get(kind)
		if root == nil {
			return Forest{}, fmt.Errorf("decode hierarchy: missing %s root", kind)
		}
		if err := Validate(root); err != nil {
			return Forest{}, fmt.Errorf("%s hierarchy: %w", kind, err)
		}
	}
	return f, nil
}

// ReadForestFile reads a forest from a JSON file.
func ReadForestFile(path string) (Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		return Forest{}, err
	}
	defer f.Close()
	return ReadForest(f)
}

// WriteForestFile writes a forest to a JSON file.
func WriteForestFile(f Forest, path string) error {
	data, err := MarshalForest(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
