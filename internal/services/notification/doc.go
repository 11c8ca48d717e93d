// Package notification delivers deposit and account notices to members and
// staff over in-app, email and SMS channels.
//
// The Dispatcher resolves a recipient's preferences, then runs every enabled
// channel's Sender in its own goroutine behind a timeout and a panic guard.
// A failing or slow channel is logged, counted and recorded as a
// DeliveryRecord; it never affects the other channels and never returns an
// error to the caller. The in-app channel writes the Notification row that
// the member reads through Service.
//
// Channels without credentials report ErrChannelNotConfigured and are
// recorded as skipped.
package notification
