package core

// Code is a machine-readable error code.
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeIllegalMove     Code = "ILLEGAL_MOVE"
	CodeIllegalState    Code = "ILLEGAL_STATE"
)

// Sentinels for errors.Is checks. Any *Error with the same code matches.
var (
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrIllegalMove     = &Error{Code: CodeIllegalMove, Message: "illegal move"}
	ErrIllegalState    = &Error{Code: CodeIllegalState, Message: "illegal state"}
)

// Error is a game or aggregation failure with structured metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// NewError creates an error with a code and message.
func NewError(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates an error carrying extra context, such as the door index
// that was rejected.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

func InvalidArgument(message string) *Error { return NewError(CodeInvalidArgument, message) }
func IllegalMove(message string) *Error     { return NewError(CodeIllegalMove, message) }
func IllegalState(message string) *Error    { return NewError(CodeIllegalState, message) }
