package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes a command's result as one JSON document, pretty-printed
// when asked. Every CLI command emits strict JSON on stdout so output can be
// piped into jq; human-facing messages go to stderr instead.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}
