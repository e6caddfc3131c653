package forms

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/velourstudio/studio-api/internal/models"
)

// Kind tells the pipeline how a form field is read into the document.
type Kind int

const (
	// Required fields are always read and stored, even when the client
	// omitted them (empty string). The booking flows intentionally do no
	// field validation; payment confirmation is the real gate.
	Required Kind = iota
	// Optional fields are stored only when present in the form.
	Optional
	// Date fields are coerced from string to a time value. An unparseable
	// value is stored as the raw string.
	Date
	// JSON fields hold a JSON-encoded value (e.g. an array of styling
	// goals). An undecodable value is stored as the raw string.
	JSON
)

type Field struct {
	Name string
	Kind Kind
}

// Definition describes one consultation form: which named fields to read,
// which collection the document lands in, and how many numbered file fields
// to accept (FilePrefix1 .. FilePrefixN).
type Definition struct {
	Slug       string
	Label      string
	Collection string
	Fields     []Field
	FilePrefix string
	MaxFiles   int
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Parse reads a parsed multipart form into a booking document plus any
// buffered file attachments. It never rejects a submission over missing
// fields.
func (d Definition) Parse(form *multipart.Form) (bson.M, []models.Attachment, error) {
	doc := bson.M{}

	for _, f := range d.Fields {
		values, present := form.Value[f.Name]
		value := ""
		if len(values) > 0 {
			value = values[0]
		}

		switch f.Kind {
		case Required:
			doc[f.Name] = value
		case Optional:
			if present {
				doc[f.Name] = value
			}
		case Date:
			doc[f.Name] = coerceDate(value)
		case JSON:
			if present {
				doc[f.Name] = coerceJSON(value)
			}
		}
	}

	var attachments []models.Attachment
	for i := 1; i <= d.MaxFiles; i++ {
		name := d.FilePrefix + strconv.Itoa(i)
		headers, ok := form.File[name]
		if !ok || len(headers) == 0 {
			continue
		}
		att, err := readAttachment(headers[0], firstValue(form, name+"LastModified"))
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		attachments = append(attachments, att)
	}
	if len(attachments) > 0 {
		doc["attachments"] = attachments
	}

	return doc, attachments, nil
}

func coerceDate(value string) interface{} {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return value
}

func coerceJSON(value string) interface{} {
	var decoded interface{}
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return value
	}
	return decoded
}

func readAttachment(header *multipart.FileHeader, lastModified string) (models.Attachment, error) {
	file, err := header.Open()
	if err != nil {
		return models.Attachment{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.Attachment{}, err
	}

	modified := time.Now()
	if ms, err := strconv.ParseInt(lastModified, 10, 64); err == nil {
		modified = time.UnixMilli(ms)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return models.Attachment{
		Name:         header.Filename,
		ContentType:  contentType,
		Size:         int64(len(data)),
		LastModified: modified,
		Data:         data,
	}, nil
}

func firstValue(form *multipart.Form, name string) string {
	if values := form.Value[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}
