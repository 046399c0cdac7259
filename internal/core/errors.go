package core

import "errors"

// ErrConnectTimeout indicates session establishment did not complete within
// the configured connect timeout. Fatal: no benchmark pass runs without a
// session.
var ErrConnectTimeout = errors.New("session establishment timed out")
