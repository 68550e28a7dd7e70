package password

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

var phcEncoding = base64.RawStdEncoding

// phc is a decoded argon2id PHC string.
type phc struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

func (p phc) String() string {
	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		p.memory,
		p.time,
		p.parallelism,
		phcEncoding.EncodeToString(p.salt),
		phcEncoding.EncodeToString(p.key),
	)
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", ErrMalformedHash, reason)
}

func decodePHC(encoded string) (phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return phc{}, malformed("expected 5 fields")
	}
	if parts[1] != algorithmID {
		return phc{}, malformed("unsupported algorithm " + strconv.Quote(parts[1]))
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return phc{}, malformed("missing version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return phc{}, malformed("unsupported version")
	}

	out, err := decodeParams(parts[3])
	if err != nil {
		return phc{}, err
	}

	out.salt, err = phcEncoding.DecodeString(parts[4])
	if err != nil {
		return phc{}, malformed("salt encoding")
	}
	if len(out.salt) < int(minSaltLength) {
		return phc{}, malformed("salt too short")
	}

	out.key, err = phcEncoding.DecodeString(parts[5])
	if err != nil {
		return phc{}, malformed("hash encoding")
	}
	if len(out.key) < int(minKeyLength) {
		return phc{}, malformed("hash too short")
	}

	return out, nil
}

func decodeParams(field string) (phc, error) {
	var (
		out  phc
		seen = map[string]bool{}
	)

	pairs := strings.Split(field, ",")
	if len(pairs) != 3 {
		return phc{}, malformed("expected m, t and p parameters")
	}

	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || seen[name] {
			return phc{}, malformed("bad parameter " + strconv.Quote(pair))
		}
		seen[name] = true

		switch name {
		case "m":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || v < uint64(minMemoryKB) {
				return phc{}, malformed("memory parameter")
			}
			out.memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || v < 1 {
				return phc{}, malformed("time parameter")
			}
			out.time = uint32(v)
		case "p":
			v, err := strconv.ParseUint(raw, 10, 8)
			if err != nil || v < 1 {
				return phc{}, malformed("parallelism parameter")
			}
			out.parallelism = uint8(v)
		default:
			return phc{}, malformed("unknown parameter " + strconv.Quote(name))
		}
	}

	return out, nil
}
