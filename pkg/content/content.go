// Package content resolves request attachments into provider message parts.
//
// Attachment handling is the same for every backend: remote image URLs pass
// through untouched, local image files are inlined as base64 data URLs, and
// local text files are embedded as text blocks. Providers differ only in
// which image MIME types they accept, so the accepted set is a parameter.
//
// Resolution touches the filesystem and therefore runs at generation time,
// after validation and before any network call.
package content

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
	"github.com/StanleyChanH/vllm-mcp/pkg/debug"
)

// Part is one unit of a provider message body. Exactly one field is set.
type Part struct {
	// Text holds inline text: the prompt or an embedded text file.
	Text string

	// Image holds an image reference, either a remote URL or a data URL.
	Image string
}

// extraTypes supplements the platform MIME table with extensions the
// gateway must classify identically on every host.
var extraTypes = map[string]string{
	".bmp": "image/bmp",
	".txt": "text/plain",
	".md":  "text/markdown",
	".csv": "text/csv",
	".log": "text/plain",
}

// Resolve turns a request's prompt and attachments into an ordered part
// list: prompt text first, then images (remote URLs in request order, then
// image files), then embedded text files.
//
// Local paths are checked here, not during validation. A missing file
// yields a file_not_found error and an unreadable one unreadable_file, in
// both cases before any backend call. Files that are neither an accepted
// image type nor text/* are skipped.
func Resolve(req *api.MultimodalRequest, allowedImageTypes []string) ([]Part, *api.Error) {
	parts := []Part{{Text: req.Prompt}}

	for _, url := range req.ImageURLs {
		parts = append(parts, Part{Image: url})
	}

	var textParts []Part
	for _, path := range req.FilePaths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, api.NewFileNotFoundError(path)
			}
			return nil, api.NewUnreadableFileError(path, err)
		}

		mimeType := typeByExtension(filepath.Ext(path))
		switch {
		case strings.HasPrefix(mimeType, "image/"):
			if !containsType(allowedImageTypes, mimeType) {
				return nil, api.NewValidationError("file_paths",
					fmt.Sprintf("image type %s is not accepted: %s", mimeType, path))
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, api.NewUnreadableFileError(path, err)
			}
			parts = append(parts, Part{Image: dataURL(mimeType, data)})

		case strings.HasPrefix(mimeType, "text/"):
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, api.NewUnreadableFileError(path, err)
			}
			textParts = append(textParts, Part{
				Text: fmt.Sprintf("File: %s\n%s", filepath.Base(path), data),
			})

		default:
			debug.Log("content", "skipping attachment with unhandled type",
				"path", path, "mime_type", mimeType)
		}
	}

	return append(parts, textParts...), nil
}

// typeByExtension resolves a file extension to a MIME type, preferring the
// built-in table so classification does not depend on the host's
// /etc/mime.types. Parameters such as charset are stripped.
func typeByExtension(ext string) string {
	if t, ok := extraTypes[strings.ToLower(ext)]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// dataURL encodes image bytes as a base64 data URL.
func dataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

func containsType(types []string, t string) bool {
	for _, v := range types {
		if v == t {
			return true
		}
	}
	return false
}
