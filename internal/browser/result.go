package browser

// ResultType classifies how an interactive authorization session ended.
type ResultType string

const (
	// ResultSuccess means the browser was redirected back with a URL.
	ResultSuccess ResultType = "success"
	// ResultCancel means the user cancelled or denied the authorization.
	ResultCancel ResultType = "cancel"
	// ResultDismiss means the session ended without a redirect, e.g. it timed out.
	ResultDismiss ResultType = "dismiss"
)

// Result is the outcome of an interactive authorization session.
type Result struct {
	Type ResultType
	// URL is the full redirect URL. Only set for ResultSuccess.
	URL string
	// Error is the OAuth error code carried by the redirect, if any.
	Error string
	// ErrorDescription is the redirect's error_description, if any.
	ErrorDescription string
}

// Success reports whether the session produced a redirect URL.
func (r *Result) Success() bool {
	return r != nil && r.Type == ResultSuccess
}
