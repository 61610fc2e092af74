package monitor

import "github.com/pkg/errors"

// ErrAllInterfacesFailed is the sentinel logged (never returned to a
// caller) when every interface in a round recorded the failure
// sentinel, triggering the outage backoff.
var ErrAllInterfacesFailed = errors.New("all interfaces failed this probe round")
