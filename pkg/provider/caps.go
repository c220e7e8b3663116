package provider

import (
	"fmt"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
)

// Caps declares a backend's hard request limits. Adapters embed a Caps
// value and validate against it before any filesystem or network work.
type Caps struct {
	// MaxImages bounds the number of image attachments per request.
	MaxImages int

	// MaxFiles bounds the number of local file attachments per request.
	MaxFiles int

	// MinTemperature and MaxTemperature bound the sampling temperature.
	MinTemperature float64
	MaxTemperature float64

	// AllowedImageTypes lists the image MIME types the backend accepts
	// for local file attachments.
	AllowedImageTypes []string
}

// Validate checks req against the caps and the supported-model predicate,
// returning the first violation or nil. Only counts and ranges are
// inspected; attachment contents are not read.
func (c Caps) Validate(req *api.MultimodalRequest, supported func(string) bool) *api.Error {
	if req.Model == "" {
		return api.NewValidationError("model", "model is required")
	}
	if req.Prompt == "" {
		return api.NewValidationError("prompt", "prompt must not be empty")
	}
	if !supported(req.Model) {
		return api.NewUnsupportedModelError(req.Model)
	}
	if n := len(req.ImageURLs); c.MaxImages > 0 && n > c.MaxImages {
		return api.NewValidationError("image_urls",
			fmt.Sprintf("request has %d images, limit is %d", n, c.MaxImages))
	}
	if n := len(req.FilePaths); c.MaxFiles > 0 && n > c.MaxFiles {
		return api.NewValidationError("file_paths",
			fmt.Sprintf("request has %d files, limit is %d", n, c.MaxFiles))
	}
	if req.MaxTokens != nil && *req.MaxTokens <= 0 {
		return api.NewValidationError("max_tokens", "max_tokens must be positive")
	}
	if req.Temperature != nil {
		if t := *req.Temperature; t < c.MinTemperature || t > c.MaxTemperature {
			return api.NewValidationError("temperature",
				fmt.Sprintf("temperature must be between %g and %g", c.MinTemperature, c.MaxTemperature))
		}
	}
	return nil
}
