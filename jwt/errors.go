package jwt

import (
	"errors"
	"fmt"
)

var (
	// ErrFailedParsing reports a token that is not well-formed: wrong segment
	// count, bad encoding, bad JSON, or a missing/mistyped required claim.
	ErrFailedParsing = errors.New("failed parsing token")
	// ErrInvalidToken reports a well-formed token that must not be trusted.
	ErrInvalidToken = errors.New("invalid token")
	// ErrSigningFailure reports a signer that cannot sign, usually because no
	// private key was configured.
	ErrSigningFailure = errors.New("token signing failure")

	ErrInvalidSignature  = fmt.Errorf("%w: signature verification failed", ErrInvalidToken)
	ErrAlgorithmMismatch = fmt.Errorf("%w: unexpected signing algorithm", ErrInvalidToken)
	ErrTokenExpired      = fmt.Errorf("%w: token expired", ErrInvalidToken)
	ErrTokenNotYetValid  = fmt.Errorf("%w: token not yet valid", ErrInvalidToken)
	ErrWrongTokenType    = fmt.Errorf("%w: wrong token type", ErrInvalidToken)
)

func parsingError(reason string) error {
	return fmt.Errorf("%w: %s", ErrFailedParsing, reason)
}
