package form

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// WireValue is the string form a field is sent as. Unanswered booleans and
// missing values are sent as "".
func WireValue(d Draft, f Field) string {
	if f.Kind == KindBool {
		return d.Bool(f.Name).String()
	}
	return d.Get(f.Name)
}

// BuildPayload encodes every scalar field and every staged document as a
// multipart/form-data body. It returns the body and its content type.
func BuildPayload(d Draft, s Staging) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for _, f := range Fields {
		if err := w.WriteField(f.Name, WireValue(d, f)); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}

	for _, slot := range SingleSlots {
		file, ok := s.Slots[slot]
		if !ok {
			continue
		}
		if err := writeFile(w, WireFields[slot], file); err != nil {
			return nil, "", err
		}
	}
	for _, file := range s.Others {
		if err := writeFile(w, WireOtherDocuments, file); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, field string, f File) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
	h.Set("Content-Type", f.MediaType())

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create part %s: %w", field, err)
	}
	if _, err := io.Copy(part, bytes.NewReader(f.Data)); err != nil {
		return fmt.Errorf("failed to write part %s: %w", field, err)
	}
	return nil
}
