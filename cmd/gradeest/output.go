package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type format string

const (
	formatYAML format = "yaml"
	formatJSON format = "json"
)

// output writes data in the format selected with --output.
func output(w io.Writer, data any) error {
	return outputAs(w, format(outputFormat), data)
}

func outputAs(w io.Writer, f format, data any) error {
	switch f {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", f)
	}
}
