// Package session holds per-operator conversation state and the
// per-actor locks that serialize event handling for one chat.
package session
