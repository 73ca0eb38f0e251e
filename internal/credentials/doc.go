// Package credentials resolves the node's connection credentials.
//
// The resolved ConnectionConfig (wireless SSID/passphrase plus broker
// account) is loaded exactly once at boot and treated as read-only for the
// rest of the process lifetime.
//
// # Resolution chain
//
//  1. Compiled-in override - only when the explicit use_builtin config flag
//     is set AND override values were baked in at build time (ldflags).
//     This is a bring-up aid; activating it is always logged at warn level
//     so it cannot ship unnoticed in a hardened build.
//  2. Persisted store - the provisioned credentials row in the node's
//     SQLite database.
//  3. Empty values - logged as a warning; connectivity will fail visibly
//     downstream rather than here.
//
// Secrets never reach the log sink in plaintext; only the fixed mask or a
// presence marker is logged (logging.MaskSecret).
package credentials
