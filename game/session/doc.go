// Package session provides session management for Food Chain Tycoon games.
//
// Each session owns one game engine together with the configuration it was
// created from and its creation and last-access times. Sessions live in
// memory only.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs generated from crypto/rand unless the
// caller supplies one. Lookups are case-insensitive. Custom IDs may contain
// letters, digits, '-' and '_'.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create(ctx, "", config)
//	if err != nil {
//		return err
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for more than an hour, checking every ten minutes
//	go manager.RunCleanup(ctx, 10*time.Minute, time.Hour)
package session
