// Package unsubscribe implements the one-click opt-out flow.
//
// A user leaves the notification group by following a link carrying
// unsubscribe=1 and their user id. Depending on the configured mode the
// request is authorized either by a per-user token stored as a profile
// attribute (usable from a mail client while logged out) or by the
// requester being logged in as that very user.
//
// Token lifecycle: a user has no token until the first unsubscribe link is
// generated for them. The token then never expires; issuing again reuses it.
package unsubscribe
