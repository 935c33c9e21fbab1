package pkg

// AppError is the HTTP-facing error envelope used by the handlers.
//
// Code is a stable machine-readable identifier, Message is safe to show to
// API consumers, Err (when present) is the underlying cause and is never
// serialized. Details carries per-field validation messages so a rejection
// can name every violated field instead of only the first.
type AppError struct {
	Code       string
	Message    string
	Err        error
	HTTPStatus int
	Details    []string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewDomainError(code, message string, err error, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPStatus: httpStatus}
}

func NewDomainErrorSimple(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// WithDetails returns a copy of e carrying the given detail lines.
func (e *AppError) WithDetails(details ...string) *AppError {
	out := *e
	out.Details = append([]string(nil), details...)
	return &out
}

// HTTPError is the JSON body written for failed requests.
type HTTPError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func (e *AppError) ToHTTPError() HTTPError {
	return HTTPError{Code: e.Code, Message: e.Message, Details: e.Details}
}
