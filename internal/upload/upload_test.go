package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	gifBytes  = append([]byte("GIF89a"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 32)...)
)

type part struct {
	name string
	data []byte
}

func fileHeaders(t *testing.T, parts ...part) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, p := range parts {
		fw, err := w.CreateFormFile("images", p.name)
		require.NoError(t, err)
		_, err = fw.Write(p.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["images"]
}

func TestFromMultipart(t *testing.T) {
	headers := fileHeaders(t, part{"a.png", pngBytes}, part{"b.gif", gifBytes})

	files, err := FromMultipart(headers, DefaultLimits())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.png", files[0].Name)
	assert.Equal(t, pngBytes, files[0].Data)
	assert.Equal(t, "b.gif", files[1].Name)
}

func TestFromMultipart_TooManyFiles(t *testing.T) {
	headers := fileHeaders(t, part{"a.png", pngBytes}, part{"b.png", pngBytes}, part{"c.png", pngBytes})

	_, err := FromMultipart(headers, DefaultLimits())
	var ferr *FileError
	require.True(t, errors.As(err, &ferr))
	assert.Contains(t, ferr.Error(), "at most 2")
}

func TestFromMultipart_TooLarge(t *testing.T) {
	headers := fileHeaders(t, part{"big.png", append(pngBytes, make([]byte, 64)...)})

	_, err := FromMultipart(headers, Limits{MaxFiles: 2, MaxFileSize: 40})
	var ferr *FileError
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, "big.png", ferr.Name)
}

func TestValidate_AcceptsImages(t *testing.T) {
	files := []File{
		{Name: "photo.jpg", MIMEType: "application/octet-stream", Data: jpegBytes},
		{Name: "logo.png", Data: pngBytes},
		{Name: "anim.gif", Data: gifBytes},
	}

	require.NoError(t, Validate(files))
	assert.Equal(t, "image/jpeg", files[0].MIMEType)
	assert.Equal(t, "image/png", files[1].MIMEType)
	assert.Equal(t, "image/gif", files[2].MIMEType)
}

func TestValidate_RejectsBySniffedContent(t *testing.T) {
	tests := []struct {
		name string
		file File
	}{
		{"text named as png", File{Name: "fake.png", MIMEType: "image/png", Data: []byte("just some text")}},
		{"pdf named as jpg", File{Name: "doc.jpg", MIMEType: "image/jpeg", Data: []byte("%PDF-1.4\n%âãÏÓ\n")}},
		{"empty file", File{Name: "empty.gif", MIMEType: "image/gif"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]File{{Name: "ok.png", Data: pngBytes}, tt.file})
			var ferr *FileError
			require.True(t, errors.As(err, &ferr))
			assert.Equal(t, tt.file.Name, ferr.Name)
			assert.Contains(t, ferr.Error(), tt.file.Name)
		})
	}
}

func TestExtension(t *testing.T) {
	for mimeType, want := range map[string]string{"image/jpeg": ".jpg", "image/png": ".png", "image/gif": ".gif"} {
		ext, ok := Extension(mimeType)
		assert.True(t, ok, mimeType)
		assert.Equal(t, want, ext)
	}

	_, ok := Extension("text/html; charset=utf-8")
	assert.False(t, ok)
}
