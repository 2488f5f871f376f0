package handlers

import (
	"errors"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errNotImage = errors.New("only jpg, jpeg and png files are allowed")

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func allowedImage(filename string) bool {
	return imageExts[strings.ToLower(filepath.Ext(filename))]
}

// saveUploadedImage stores the uploaded file under dir with a fresh name
// and returns the web path the static file server resolves. Returns
// http.ErrMissingFile when the field is absent.
func saveUploadedImage(c *gin.Context, field, dir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", http.ErrMissingFile
	}
	if !allowedImage(file.Filename) {
		return "", errNotImage
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
		return "", err
	}
	return "/" + path.Join(filepath.ToSlash(dir), name), nil
}
