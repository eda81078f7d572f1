package utils

import "time"

// RequestTimeout bounds every storage round trip started by a request.
const RequestTimeout = 3 * time.Second
