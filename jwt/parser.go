package jwt

import (
	"errors"
	"fmt"

	gjwt "github.com/golang-jwt/jwt/v5"
)

// Parser decodes token strings into [Claims]. It checks structure and
// signature; it does not judge the time window.
type Parser struct {
	signer *Signer
	parser *gjwt.Parser
}

func NewParser(signer *Signer) *Parser {
	return &Parser{
		signer: signer,
		parser: gjwt.NewParser(
			gjwt.WithValidMethods([]string{signer.Alg()}),
			gjwt.WithStrictDecoding(),
			gjwt.WithoutClaimsValidation(),
		),
	}
}

// Parse decodes token. Failures match ErrFailedParsing (malformed token) or
// ErrInvalidToken (algorithm mismatch or bad signature).
func (p *Parser) Parse(token string) (Claims, error) {
	var payload payloadClaims
	parsed, err := p.parser.ParseWithClaims(token, &payload, p.verifyKey)
	if err != nil {
		return Claims{}, p.classify(parsed, err)
	}
	if payload.err != nil {
		return Claims{}, payload.err
	}
	return payload.claims, nil
}

func (p *Parser) verifyKey(*gjwt.Token) (any, error) {
	return p.signer.verifyKey, nil
}

func (p *Parser) classify(token *gjwt.Token, err error) error {
	switch {
	case errors.Is(err, gjwt.ErrTokenMalformed):
		return parsingError(err.Error())
	case errors.Is(err, gjwt.ErrTokenUnverifiable):
		// Missing alg is a malformed header; an alg nobody implements is a mismatch.
		if token == nil {
			return parsingError(err.Error())
		}
		if _, ok := token.Header["alg"].(string); !ok {
			return parsingError("missing alg")
		}
		return ErrAlgorithmMismatch
	case errors.Is(err, gjwt.ErrTokenSignatureInvalid):
		if token != nil && token.Method != nil && token.Method.Alg() != p.signer.Alg() {
			return ErrAlgorithmMismatch
		}
		return ErrInvalidSignature
	}
	return fmt.Errorf("%w: %v", ErrInvalidToken, err)
}
