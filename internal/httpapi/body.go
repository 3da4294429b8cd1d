package httpapi

//
// Request bodies
//

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// ApplicationJSON is the content-type for JSON.
const ApplicationJSON = "application/json"

// Body is the body of a [Request]: either a [JSONBody] or a
// [MultipartBody]. A nil Body means the request has no body.
type Body interface {
	isBody()
}

// JSONBody is a body serialized as JSON with Content-Type
// set to [ApplicationJSON].
type JSONBody struct {
	// Value is the MANDATORY JSON-serializable value.
	Value any
}

func (JSONBody) isBody() {}

// MultipartFile is a file part of a [MultipartBody].
type MultipartFile struct {
	// Field is the MANDATORY form field name.
	Field string

	// Filename is the MANDATORY file name.
	Filename string

	// ContentType is the OPTIONAL file content type. When empty, the
	// multipart writer uses application/octet-stream.
	ContentType string

	// Content is the file content.
	Content []byte
}

// MultipartBody is a multipart/form-data body. Its Content-Type,
// including the boundary, comes from the multipart encoder.
type MultipartBody struct {
	// Fields contains the OPTIONAL plain form fields.
	Fields map[string]string

	// Files contains the OPTIONAL file parts.
	Files []MultipartFile
}

func (MultipartBody) isBody() {}

// encodeJSON returns the serialized JSON body.
func encodeJSON(body JSONBody) ([]byte, error) {
	return json.Marshal(body.Value)
}

// encodeMultipart returns the serialized body and the content-type
// carrying the boundary used to separate the parts.
func encodeMultipart(body MultipartBody) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	names := make([]string, 0, len(body.Fields))
	for name := range body.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writer.WriteField(name, body.Fields[name]); err != nil {
			return nil, "", err
		}
	}
	for _, file := range body.Files {
		part, err := createFilePart(writer, file)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func createFilePart(writer *multipart.Writer, file MultipartFile) (io.Writer, error) {
	if file.ContentType == "" {
		return writer.CreateFormFile(file.Field, file.Filename)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(file.Field), quoteEscaper.Replace(file.Filename)))
	header.Set("Content-Type", file.ContentType)
	return writer.CreatePart(header)
}
