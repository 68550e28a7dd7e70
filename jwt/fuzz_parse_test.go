package jwt

import (
	"testing"
)

// FuzzParse feeds arbitrary strings to the parser. Malformed input must be
// rejected with an error and never panic.
func FuzzParse(f *testing.F) {
	m := newTestManager(f, MethodEd25519)
	pair, err := m.Issue(testUser, t0)
	if err != nil {
		f.Fatal(err)
	}

	f.Add(pair.AccessToken)
	f.Add(pair.RefreshToken)
	f.Add("")
	f.Add("not.a.jwt")
	f.Add("eyJhbGciOiJFZERTQSJ9.eyJ1c2VyIjp7fX0.invalid")
	f.Add("eyJhbGciOiJub25lIn0.eyJ1c2VyIjp7fX0.")

	f.Fuzz(func(t *testing.T, input string) {
		claims, err := m.Parse(input)
		if err != nil {
			return
		}
		if claims.ExpiresAt().Before(claims.NotBefore()) {
			t.Fatal("parser accepted claims with inverted window")
		}
	})
}
