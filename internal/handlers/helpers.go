package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gardenpro/landscape-api/internal/audit"
	"github.com/gardenpro/landscape-api/internal/domain/access"
	"github.com/gardenpro/landscape-api/internal/domain/media"
	"github.com/gardenpro/landscape-api/internal/httperr"
)

// paramID reads a positive integer path parameter. On failure it writes a
// 400 and returns false.
func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		httperr.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return uint(n), true
}

// bindJSON decodes the body into req. On failure it writes a 400 and
// returns false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			httperr.BadRequest(c, "Request body is required")
			return false
		}
		httperr.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

// bindBody decodes a JSON or multipart body into req according to the
// Content-Type. On failure it writes a 400 and returns false.
func bindBody(c *gin.Context, req any) bool {
	if !isMultipart(c) {
		return bindJSON(c, req)
	}
	if err := c.ShouldBind(req); err != nil {
		httperr.BadRequest(c, "Invalid request body")
		return false
	}
	return true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// optionalUploads is formUploads for endpoints where files may be omitted,
// including JSON requests.
func optionalUploads(c *gin.Context, field string, maxSize int64) ([]media.Upload, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	return formUploads(c, field, maxSize)
}

// formUploads collects the files sent under field, rejecting any larger than
// maxSize bytes.
func formUploads(c *gin.Context, field string, maxSize int64) ([]media.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, httperr.ErrValidation("Please upload at least one photo")
	}

	files := form.File[field]
	if len(files) == 0 {
		files = form.File[field+"[]"]
	}

	uploads := make([]media.Upload, 0, len(files))
	for _, fh := range files {
		if maxSize > 0 && fh.Size > maxSize {
			return nil, httperr.ErrValidation(fmt.Sprintf("Please upload an image less than %d bytes", maxSize))
		}
		uploads = append(uploads, media.Upload{
			Filename: fh.Filename,
			Open:     opener(fh),
		})
	}
	return uploads, nil
}

func opener(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) { return fh.Open() }
}

// writeAudit records a change made directly through a handler.
func writeAudit(d *audit.Dispatcher, actor access.Actor, action, entity string, entityID uint, meta any) {
	id := entityID
	d.Dispatch(audit.Event{
		UserID:   actor.UserRef(),
		Action:   action,
		Entity:   entity,
		EntityID: &id,
		Metadata: meta,
	})
}
