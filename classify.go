package myq

import "encoding/json"

// Service failure codes carried in the "code" field of error bodies.
const (
	serviceCodeDeviceNotFound     = "400.301"
	serviceCodeTokenExpired       = "401.101"
	serviceCodeInvalidCredentials = "401.203"
	serviceCodeOneTryLeft         = "401.205"
	serviceCodeLockedOut          = "401.207"
)

const (
	msgUnidentifiedServiceResponse = "Unidentified error returned from service."
	msgServiceUnreachable          = "Service could not be reached."
	msgServiceRequestFailed        = "Request to service could not be made."
)

var serviceCodeErrors = map[string]struct {
	code    Code
	message string
}{
	serviceCodeDeviceNotFound:     {CodeDeviceNotFound, "Device could not be found."},
	serviceCodeTokenExpired:       {CodeLoginRequired, "Security token has expired. Please call Login() again."},
	serviceCodeInvalidCredentials: {CodeAuthenticationFailed, "Email or password is incorrect."},
	serviceCodeOneTryLeft:         {CodeAuthenticationFailedOneTryLeft, "User will be locked out due to too many tries. One try left."},
	serviceCodeLockedOut:          {CodeAuthenticationFailedLockedOut, "User is locked out due to too many tries. Please reset the password and try again."},
}

// serviceFailure describes a service request that did not succeed.
type serviceFailure struct {
	// Response is set when the service replied.
	Response *ServiceResponse
	// Sent is true once the request was handed to the transport.
	Sent bool
	// Err is the underlying cause.
	Err error
}

// classifyServiceError maps a failed service request to exactly one *Error.
// A reply is classified by its body's failure code, falling back to
// CodeInvalidServiceResponse; a request that was sent without a reply is
// CodeServiceUnreachable; anything else never left the client and is
// CodeServiceRequestFailed.
func classifyServiceError(f serviceFailure) *Error {
	if f.Response != nil {
		if known, ok := serviceCodeErrors[serviceErrorCode(f.Response.Body)]; ok {
			return &Error{Code: known.code, Message: known.message, Response: f.Response, Err: f.Err}
		}
		return &Error{Code: CodeInvalidServiceResponse, Message: msgUnidentifiedServiceResponse, Response: f.Response, Err: f.Err}
	}
	if f.Sent {
		return &Error{Code: CodeServiceUnreachable, Message: msgServiceUnreachable, Err: f.Err}
	}
	return &Error{Code: CodeServiceRequestFailed, Message: msgServiceRequestFailed, Err: f.Err}
}

// serviceErrorCode extracts the string "code" field from an error body.
// Returns "" if the body is not a JSON object or has no string code.
func serviceErrorCode(body []byte) string {
	var errResp struct {
		Code json.RawMessage `json:"code"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil || len(errResp.Code) == 0 {
		return ""
	}
	var code string
	if err := json.Unmarshal(errResp.Code, &code); err != nil {
		return ""
	}
	return code
}
