package core

// detailError attaches context to a sentinel error without pulling in fmt.
// errors.Is still matches the sentinel.
type detailError struct {
	err    error
	detail string
}

func (e *detailError) Error() string {
	return e.err.Error() + " (" + e.detail + ")"
}

func (e *detailError) Unwrap() error {
	return e.err
}

func withDetail(err error, detail string) error {
	return &detailError{err: err, detail: detail}
}
