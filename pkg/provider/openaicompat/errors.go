package openaicompat

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/StanleyChanH/vllm-mcp/pkg/api"
)

// maxErrorBodySize caps how much of an error response body is read when
// extracting error details.
const maxErrorBodySize = 4096

// MapHTTPError converts a non-2xx backend response into the gateway error
// taxonomy: 401/403 become provider_auth, 429 provider_rate_limit, and
// everything else provider_response.
func MapHTTPError(provider string, resp *http.Response) *api.Error {
	message := ExtractErrorMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = "backend authentication failed"
		}
		return api.NewProviderAuthError(provider, message)

	case http.StatusTooManyRequests:
		if message == "" {
			message = "backend rate limit exceeded"
		}
		return api.NewProviderRateLimitError(provider, message)

	default:
		if message == "" {
			message = fmt.Sprintf("backend error (HTTP %d)", resp.StatusCode)
		} else {
			message = fmt.Sprintf("%s (HTTP %d)", message, resp.StatusCode)
		}
		return api.NewProviderResponseError(provider, message)
	}
}

// MapNetworkError converts a transport-level error (connection refused,
// timeout, DNS failure) into a provider_network error.
func MapNetworkError(provider string, err error) *api.Error {
	return api.NewProviderNetworkError(provider, err)
}

// ExtractErrorMessage reads a bounded amount of the response body and pulls
// the error message out of an OpenAI-style error envelope. Returns "" when
// the body is empty or not in the expected format.
func ExtractErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp ChatErrorResponse
	if err := json.Unmarshal(data, &errResp); err != nil {
		return ""
	}
	return errResp.Error.Message
}
