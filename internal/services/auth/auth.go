// Package auth keeps Domain0 session tokens in the OS keychain and decodes
// the claims carried inside them.
package auth

import "errors"

// ServiceName is the keychain service every token is filed under.
const ServiceName = "d0ctl"

var ErrTokenNotFound = errors.New("auth token not found")
