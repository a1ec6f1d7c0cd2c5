package fasthash

import "errors"

// ErrConcurrentModification is the panic value an Iterator raises when it
// detects the underlying Set changed since iteration began.
var ErrConcurrentModification = errors.New("fasthash: concurrent modification detected during iteration")
