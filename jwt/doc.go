// Package jwt issues and verifies the signed access/refresh token pairs used by
// goTokenAuth.
//
// # Wire format
//
// A token is three base64url (unpadded) segments joined by ".":
//
//	header.payload.signature
//
// The header is {"alg":"RS256","typ":"JWT"} (or "EdDSA"). The payload carries
// the claim set with millisecond epoch timestamps:
//
//	{"user":{"id":"42","email":"a@b.com"},"extra":{"typ":"access","jti":"..."},
//	 "issuedAt":1700000000000,"notBefore":1700000000000,"expiresAt":1700000900000}
//
// The signature covers the ASCII bytes of "header.payload". Framing, signing
// and splitting go through golang-jwt; the payload is a custom claims type
// whose JSON keeps the field and extra-claim order shown above.
//
// # Components
//
//   - [Signer] holds the key pair and is the only type that touches key material.
//   - [Parser] turns a token string into [Claims], checking structure and signature only.
//   - [Issuer] mints a [TokenPair] for a [ClaimsUser] at a given instant.
//   - [Manager] wires the three together from a [Config].
//
// Time-window validity is not judged by the parser. Callers use
// [Claims.CheckWindow] so that "cryptographically valid" and "currently valid"
// stay separate decisions.
package jwt
