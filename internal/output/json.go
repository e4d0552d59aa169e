package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter outputs the transcript as indented JSON.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, t *Transcript) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("writing JSON: %w", err)
	}
	return nil
}
