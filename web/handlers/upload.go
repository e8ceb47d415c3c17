package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
)

// uploadSource serves the files of a multipart upload in the order they
// were sent. Repeated file names get a numeric suffix so each part keeps
// its own name.
type uploadSource struct {
	names []string
	files map[string]*multipart.FileHeader
}

func newUploadSource(headers []*multipart.FileHeader) uploadSource {
	src := uploadSource{files: make(map[string]*multipart.FileHeader, len(headers))}
	for _, fh := range headers {
		name := fh.Filename
		for n := 2; src.files[name] != nil; n++ {
			name = fmt.Sprintf("%s (%d)", fh.Filename, n)
		}
		src.names = append(src.names, name)
		src.files[name] = fh
	}
	return src
}

func (s uploadSource) List(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.names...), nil
}

func (s uploadSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	fh, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("no uploaded file named %s", name)
	}
	return fh.Open()
}
