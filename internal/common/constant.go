// Package common contains shared constants and sentinel errors used across
// gophnotes components.
package common

// AuthorizationHeaderName is the HTTP header that carries the session token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the session token inside the Authorization header.
const BearerPrefix = "Bearer "

// TemplateLockedMessage is the user-facing text returned whenever a template's
// field set cannot be changed because notes already use it.
const TemplateLockedMessage = "This template's fields are in use by notes and cannot be changed or removed"
