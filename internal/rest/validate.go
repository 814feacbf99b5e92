package rest

import (
	"encoding/json"
	"net/http"
)

// genericErrorMessage is used when a failed response matches no known error
// envelope.
const genericErrorMessage = "generic resource error"

// resourceErrorEnvelope is the error shape produced by the resource layer.
type resourceErrorEnvelope struct {
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode"`
	Fields    []string `json:"fields"`
}

// oauthErrorEnvelope is the error shape produced by the OAuth layer.
type oauthErrorEnvelope struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Validate classifies an HTTP response. Statuses in [200, 300) pass. 401
// yields ErrUnauthorized regardless of body content. Any other failure is
// decoded into a *ResourceError, trying the resource error envelope first,
// then the OAuth envelope, then falling back to a generic error that still
// carries the raw body. The ordered fallback exists because the platform
// returns different envelopes depending on which subsystem rejected the
// request, and the client cannot know in advance which one produced the
// failure.
func Validate(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	if statusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var resourceErr resourceErrorEnvelope
	if err := json.Unmarshal(body, &resourceErr); err == nil && resourceErr.ErrorCode != "" {
		return &ResourceError{
			StatusCode: statusCode,
			ErrorCode:  resourceErr.ErrorCode,
			Message:    resourceErr.Message,
			Fields:     resourceErr.Fields,
			Body:       body,
		}
	}

	var oauthErr oauthErrorEnvelope
	if err := json.Unmarshal(body, &oauthErr); err == nil && oauthErr.Error != "" {
		return &ResourceError{
			StatusCode: statusCode,
			ErrorCode:  oauthErr.Error,
			Message:    oauthErr.ErrorDescription,
			Body:       body,
		}
	}

	return &ResourceError{
		StatusCode: statusCode,
		Message:    genericErrorMessage,
		Body:       body,
	}
}
