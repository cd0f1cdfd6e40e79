package review

import "errors"

// ErrDocumentNotFound is returned by Process when the queued document no
// longer exists. The queue item is dead-lettered.
var ErrDocumentNotFound = errors.New("paper not found")
