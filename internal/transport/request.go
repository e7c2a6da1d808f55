package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/retailops/stockparity/pkg/errors"
)

// maxErrorBody caps how much of an error response body ends up in
// error messages.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx statuses become a FetchError carrying the status code, the
// request endpoint, and an excerpt of the response body.
func DecodeResponse(source string, resp *http.Response, target any) error {
	defer resp.Body.Close() //nolint:errcheck // read side already consumed

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &errors.FetchError{
			Source:     source,
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint(resp),
			Message:    excerpt(body),
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint(resp), err)
	}

	return nil
}

func endpoint(resp *http.Response) string {
	if resp.Request != nil && resp.Request.URL != nil {
		return resp.Request.URL.String()
	}
	return ""
}

func excerpt(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}
