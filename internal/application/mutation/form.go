package mutation

import (
	"mime/multipart"
	"net/url"
	"strings"
)

// IdempotencyField is the reserved form field carrying the client's submission key
const IdempotencyField = "_idempotency_key"

// Form is a raw form submission
type Form struct {
	Values url.Values
	Files  map[string]*multipart.FileHeader
}

// NewForm wraps submitted values
func NewForm(values url.Values) Form {
	if values == nil {
		values = url.Values{}
	}
	return Form{Values: values}
}

// WithFile attaches an uploaded file under name
func (f Form) WithFile(name string, fh *multipart.FileHeader) Form {
	if fh == nil {
		return f
	}
	files := make(map[string]*multipart.FileHeader, len(f.Files)+1)
	for k, v := range f.Files {
		files[k] = v
	}
	files[name] = fh
	f.Files = files
	return f
}

// Get returns the trimmed value of a field
func (f Form) Get(name string) string {
	return strings.TrimSpace(f.Values.Get(name))
}

// First returns the first non-empty trimmed value among names
func (f Form) First(names ...string) string {
	for _, name := range names {
		if v := f.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// File returns an uploaded file by field name
func (f Form) File(name string) (*multipart.FileHeader, bool) {
	fh, ok := f.Files[name]
	return fh, ok && fh != nil
}

// IdempotencyKey returns the submission key, or "" if the client sent none
func (f Form) IdempotencyKey() string {
	return f.Get(IdempotencyField)
}
