// Package session manages the conversation with the review model.
//
// A [Session] owns an ordered history seeded with a fixed system instruction
// and the most recently reviewed code. Every exchange appends one user and one
// assistant message; [Session.Clear] restores the initial state. The model is
// reached only through the [chat.Completer] passed to [New], so tests can
// substitute a fake.
package session
