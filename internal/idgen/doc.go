// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Worker identities are opaque strings; callers should not parse them.
package idgen
