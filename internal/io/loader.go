// Image loading with a search-path fallback
package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// ImageLoader handles image file operations
type ImageLoader struct {
	logger logrus.FieldLogger
}

func NewImageLoader(logger logrus.FieldLogger) *ImageLoader {
	return &ImageLoader{
		logger: logger,
	}
}

// LoadImage reads a colour (BGR) image from path.
func (il *ImageLoader) LoadImage(path string) (gocv.Mat, error) {
	il.logger.WithField("filepath", path).Debug("Loading image")

	if !il.isSupportedImageFormat(path) {
		return gocv.NewMat(), fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("failed to load image: %s", path)
	}

	il.logger.WithFields(logrus.Fields{
		"filepath": path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("Image loaded successfully")

	return mat, nil
}

// LoadFirst tries each path in order and returns the first image that
// loads. When none does the error wraps ErrLoad.
func (il *ImageLoader) LoadFirst(paths []string) (gocv.Mat, string, error) {
	if len(paths) == 0 {
		return gocv.NewMat(), "", fmt.Errorf("%w: no image paths configured", ErrLoad)
	}

	var failures []string
	for _, path := range paths {
		mat, err := il.LoadImage(path)
		if err == nil {
			return mat, path, nil
		}
		il.logger.WithError(err).WithField("filepath", path).Debug("Image candidate rejected")
		failures = append(failures, err.Error())
	}

	return gocv.NewMat(), "", fmt.Errorf("%w: %s", ErrLoad, strings.Join(failures, "; "))
}

func (il *ImageLoader) isSupportedImageFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	supportedFormats := []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}

	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}

	return false
}
