package testutil

import (
	"io"
	"mime/multipart"
)

type multipartBody struct {
	w *multipart.Writer
}

func newMultipart(dst io.Writer) *multipartBody {
	return &multipartBody{w: multipart.NewWriter(dst)}
}

func (m *multipartBody) file(field, filename string, content []byte) error {
	part, err := m.w.CreateFormFile(field, filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(content); err != nil {
		return err
	}
	return m.w.Close()
}

func (m *multipartBody) contentType() string {
	return m.w.FormDataContentType()
}
