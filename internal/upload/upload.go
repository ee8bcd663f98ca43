// Package upload admits image attachments before anything reaches storage.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

// Default limits for product images.
const (
	DefaultMaxFiles    = 2
	DefaultMaxFileSize = 2 << 20
)

// AllowedTypes is the set of image types accepted after content sniffing.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// Extension returns the file extension stored objects of an allowed
// mimeType get. ok is false for any other type.
func Extension(mimeType string) (ext string, ok bool) {
	ext, ok = extensions[mimeType]
	return ext, ok
}

// File is an attachment held in memory.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Limits bounds the attachments of a single request.
type Limits struct {
	MaxFiles    int
	MaxFileSize int64
}

// DefaultLimits returns two files of at most 2 MiB each.
func DefaultLimits() Limits {
	return Limits{MaxFiles: DefaultMaxFiles, MaxFileSize: DefaultMaxFileSize}
}

// FileError rejects an attachment. Name is the client filename when known.
type FileError struct {
	Name   string
	Reason string
}

func (e *FileError) Error() string {
	if e.Name == "" {
		return e.Reason
	}
	return fmt.Sprintf("file %q: %s", e.Name, e.Reason)
}

// FromMultipart reads the given parts into memory, enforcing count and size limits.
func FromMultipart(headers []*multipart.FileHeader, limits Limits) ([]File, error) {
	if len(headers) > limits.MaxFiles {
		return nil, &FileError{Reason: fmt.Sprintf("too many files: at most %d allowed", limits.MaxFiles)}
	}

	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > limits.MaxFileSize {
			return nil, &FileError{Name: fh.Filename, Reason: fmt.Sprintf("exceeds the %d byte limit", limits.MaxFileSize)}
		}
		data, err := readPart(fh, limits.MaxFileSize)
		if err != nil {
			return nil, err
		}
		files = append(files, File{
			Name:     fh.Filename,
			MIMEType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, &FileError{Name: fh.Filename, Reason: "could not be read"}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, &FileError{Name: fh.Filename, Reason: "could not be read"}
	}
	if int64(len(data)) > maxSize {
		return nil, &FileError{Name: fh.Filename, Reason: fmt.Sprintf("exceeds the %d byte limit", maxSize)}
	}
	return data, nil
}

// Validate sniffs each file's bytes and rejects anything that is not an
// allowed image, whatever its name or declared type. On success the MIMEType
// of every file is replaced with the sniffed type.
func Validate(files []File) error {
	for i := range files {
		if len(files[i].Data) == 0 {
			return &FileError{Name: files[i].Name, Reason: "is empty"}
		}
		detected := mimetype.Detect(files[i].Data)
		if !mimetype.EqualsAny(detected.String(), AllowedTypes...) {
			return &FileError{
				Name:   files[i].Name,
				Reason: fmt.Sprintf("has unsupported type %s; only JPEG, PNG and GIF images are allowed", detected.String()),
			}
		}
		files[i].MIMEType = detected.String()
	}
	return nil
}
