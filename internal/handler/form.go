package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"
)

// formFiles returns the uploaded files for a multipart field, or nil when
// the request carries no multipart body.
func formFiles(c *gin.Context, field string) []*multipart.FileHeader {
	mf, err := c.MultipartForm()
	if err != nil || mf == nil {
		return nil
	}
	return mf.File[field]
}
