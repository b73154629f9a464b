// Package auth implements local password authentication and the session
// middleware that attaches the requester's identity and role level to each
// request.
package auth
