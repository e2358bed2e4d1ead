package async

import "errors"

// ErrTimeout is returned by AwaitWithTimeout when the deadline passes
// before the computation completes.
var ErrTimeout = errors.New("async: await timed out")
