package unsubscribe

import "errors"

var errNoGroup = errors.New("no notification group configured")
