package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradeacademy/tradeacademy-api/internal/services"
	"github.com/tradeacademy/tradeacademy-api/internal/upload"
	"github.com/tradeacademy/tradeacademy-api/internal/validation"
)

// formFile reads an optional multipart file field. A missing file returns
// (nil, nil): the schema decides whether absence is an error.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, *validation.FileMeta, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return header, &validation.FileMeta{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

// stageFile spools a multipart file through the staging slot. The slot has
// already been validated by the schema, so Select failing here means the
// spool itself failed. The caller owns the returned slot and must Close it.
func stageFile(stagingDir string, header *multipart.FileHeader, meta *validation.FileMeta, maxSize int64, allowedTypes []string) (*upload.StagedFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	staged := upload.NewStagedFile(stagingDir, maxSize, allowedTypes)
	if err := staged.Select(meta, src); err != nil {
		staged.Clear()
		return nil, err
	}
	return staged, nil
}

// openStaged turns a staged slot into the FileUpload the services consume.
// The returned closer releases the spool reader, not the slot itself.
func openStaged(staged *upload.StagedFile) (*services.FileUpload, func(), error) {
	rc, err := staged.Open()
	if err != nil {
		return nil, nil, err
	}
	meta := staged.File()
	return &services.FileUpload{
		Name:        meta.Name,
		ContentType: meta.ContentType,
		Size:        meta.Size,
		Body:        rc,
	}, func() { rc.Close() }, nil
}
