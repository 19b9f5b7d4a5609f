package handler

import (
	"fmt"
	"mime/multipart"

	"fashion-shop/internal/service"
)

// imageUploads opens multipart files for the service layer. The returned
// cleanup must be called once the service has consumed the readers.
func imageUploads(files []*multipart.FileHeader) ([]service.ImageUpload, func(), error) {
	uploads := make([]service.ImageUpload, 0, len(files))
	opened := make([]multipart.File, 0, len(files))

	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to open uploaded file %s: %w", header.Filename, err)
		}
		opened = append(opened, f)
		uploads = append(uploads, service.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        f,
		})
	}

	return uploads, cleanup, nil
}
