// Package session holds the per-user answer map and the small in-memory store
// the HTTP host uses to keep one Session per browser.
//
// Sessions are passed explicitly to every component; nothing in this module
// keeps answers in package-level state.
package session
