// Package password hashes and verifies login credentials with argon2id.
//
// Hashes use the PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Salt and hash are unpadded standard base64, as in the reference argon2
// implementation. [Hasher.NeedsRehash] reports hashes produced with weaker
// parameters than the current [Config] so callers can re-hash after a
// successful login.
//
// The package never stores passwords and never logs plaintext or parameters.
package password
