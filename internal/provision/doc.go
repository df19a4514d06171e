// Package provision implements the conversational flow that creates a
// new PPPoE secret on the router.
//
// # Flow
//
// The machine walks one operator through five steps:
//
//	idle → awaiting_username → awaiting_password → awaiting_profile → awaiting_confirm → idle
//
// Username and password arrive as free text and are stored verbatim.
// The profile step is driven by the router's own profile list, rendered
// as buttons; typed text cannot stand in for a selection. The final
// step commits on a case-insensitive "ya" and cancels on anything else.
// The draft is cleared on commit, cancel, abort, and whenever a new
// flow starts, so no stale state survives a restart of the conversation.
//
// # Failure behavior
//
// A backend failure or an empty profile menu aborts the flow back to
// idle with a user-visible message; the operator re-initiates manually.
// There is no retry logic anywhere in the flow.
package provision
