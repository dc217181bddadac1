package metadomain

// ErrorResponse is the Graph API error envelope returned on non-200 responses.
type ErrorResponse struct {
	Error ErrorDetails `json:"error"`
}

type ErrorDetails struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	FBTraceID    string `json:"fbtrace_id"`
}

// Graph API error codes that mean the call was throttled and can be retried.
// https://developers.facebook.com/docs/graph-api/guides/rate-limiting
var rateLimitCodes = map[int]bool{
	4:   true, // application request limit
	17:  true, // user request limit
	32:  true, // page request limit
	613: true, // custom rate limit
}

// IsRateLimited reports whether the error is a throttling response.
func (e *ErrorDetails) IsRateLimited() bool {
	return rateLimitCodes[e.Code]
}

// IsAuthError reports whether the error means the access token is invalid
// or expired. These never succeed on retry. Throttling errors also carry
// type OAuthException, so only the code is checked here.
func (e *ErrorDetails) IsAuthError() bool {
	return e.Code == 190
}
