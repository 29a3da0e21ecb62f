package anki

import "errors"

// AnkiConnect client errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at the call site. This allows callers to
// use errors.Is() for programmatic error handling while still providing
// human-readable messages. The remote error text and the action name
// are attached with fmt.Errorf and %w where the error occurs.
var (
	// ErrAnkiConnect is returned when the endpoint answers with an
	// error field instead of a result, e.g. an unknown deck or model.
	ErrAnkiConnect = errors.New("ankiconnect error")

	// ErrUnexpectedStatus is returned when the endpoint answers with a
	// non-200 status code. AnkiConnect itself always answers 200, so
	// this usually means something else is listening on the port.
	ErrUnexpectedStatus = errors.New("unexpected http status from ankiconnect")
)
