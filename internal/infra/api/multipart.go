package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"strings"
)

type FormField struct {
	Name  string
	Value string
}

type FormFile struct {
	Field       string
	FileName    string
	ContentType string // guessed from FileName when empty
	Content     io.Reader
}

// Form is a multipart/form-data body. Parts are written in insertion order.
type Form struct {
	Fields []FormField
	Files  []FormFile
}

func (f *Form) Add(name, value string) *Form {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
	return f
}

func (f *Form) AddFile(field, fileName string, content io.Reader) *Form {
	f.Files = append(f.Files, FormFile{Field: field, FileName: fileName, Content: content})
	return f
}

// Value returns the first field value for name.
func (f *Form) Value(name string) (string, bool) {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld.Value, true
		}
	}
	return "", false
}

func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fld := range f.Fields {
		if err := w.WriteField(fld.Name, fld.Value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.Files {
		ct := file.ContentType
		if ct == "" {
			ct = mime.TypeByExtension(strings.ToLower(filepath.Ext(file.FileName)))
		}
		if ct == "" {
			ct = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, filepath.Base(file.FileName)))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if file.Content != nil {
			if _, err := io.Copy(part, file.Content); err != nil {
				return nil, "", fmt.Errorf("copy %s: %w", file.FileName, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func formRequest(endpoint, method, path string, form *Form) (request, error) {
	if form == nil {
		form = &Form{}
	}
	body, ct, err := form.encode()
	if err != nil {
		return request{}, fmt.Errorf("%s: encode form: %w", endpoint, err)
	}
	return request{endpoint: endpoint, method: method, path: path, rawBody: body, contentType: ct}, nil
}
