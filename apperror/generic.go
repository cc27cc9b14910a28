package apperror

type Error string

func (e Error) Error() string { return string(e) }

// generic error kinds shared by all models
// (domain-specific errors live in the models package)
const (
	ErrNoData          = Error("no records found")
	ErrMultipleRecords = Error("multiple records found")
	ErrGuest           = Error("user is guest")
	ErrUnverified      = Error("e-mail address not verified")
	ErrRecordChanged   = Error("write conflict") // optimistic lock lost, even after the retry
	ErrDenied          = Error("not allowed")    // eg. upd/del not allowed
	ErrUnavailable     = Error("store not available")
)
