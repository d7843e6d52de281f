package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
)

// MaxBodyBytes limits the size of request bodies accepted by Decode.
const MaxBodyBytes = 1 << 20

// Decode reads a JSON or URL-encoded form body into v.
// Form values are mapped onto the json field names of v.
// An empty body leaves v untouched and is not an error.
func Decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		return decodeForm(r, v)
	}

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode json body: %w", err)
	}
	return nil
}

func decodeForm(r *http.Request, v interface{}) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form body: %w", err)
	}

	fields := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		fields[key] = r.PostForm.Get(key)
	}

	// Round-trip through JSON so form fields follow the same struct tags as JSON bodies.
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode form fields: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode form fields: %w", err)
	}
	return nil
}
