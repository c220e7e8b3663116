package dashscope

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

// mapHTTPError converts a non-2xx Dashscope response into the gateway
// error taxonomy. Dashscope error bodies carry {"code", "message"}, so the
// code is prepended to the message when present.
func mapHTTPError(resp *http.Response) *api.Error {
	message := extractErrorMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = "backend authentication failed"
		}
		return api.NewProviderAuthError(providerName, message)

	case http.StatusTooManyRequests:
		if message == "" {
			message = "backend rate limit exceeded"
		}
		return api.NewProviderRateLimitError(providerName, message)

	default:
		if message == "" {
			message = fmt.Sprintf("backend error (HTTP %d)", resp.StatusCode)
		} else {
			message = fmt.Sprintf("%s (HTTP %d)", message, resp.StatusCode)
		}
		return api.NewProviderResponseError(providerName, message)
	}
}

// mapNetworkError converts a transport-level error into provider_network.
func mapNetworkError(err error) *api.Error {
	return api.NewProviderNetworkError(providerName, err)
}

// extractErrorMessage reads a bounded amount of the response body and pulls
// the code and message out of a Dashscope error payload. Returns "" when
// the body is empty or not in the expected format.
func extractErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return ""
	}

	var errResp generationResponse
	if err := json.Unmarshal(data, &errResp); err != nil {
		return ""
	}
	if errResp.Code != "" && errResp.Message != "" {
		return fmt.Sprintf("%s: %s", errResp.Code, errResp.Message)
	}
	return errResp.Message
}
