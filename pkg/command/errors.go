package command

// ValidationError is the structured construction-time error named in the
// data model: a command failing to build carries a stable reason code
// distinct from the dispatch-time Rejection codes (construction never
// reaches the dispatcher).
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Reason + ": " + e.Message
}

func newValidationError(reason, message string) error {
	return &ValidationError{Reason: reason, Message: message}
}
