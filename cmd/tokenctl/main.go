// Command tokenctl generates signing keys and mints or inspects tokens
// using the same environment variables a service reads through envconfig.
//
//	tokenctl keygen [-method ed25519|rs256]
//	tokenctl issue -id 42 -email ada@example.com [-env-prefix APP]
//	tokenctl inspect [-env-prefix APP] <token | ->
package main

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
	"github.com/MrEthical07/goTokenAuth/envconfig"
	"github.com/MrEthical07/goTokenAuth/jwt"
	"github.com/MrEthical07/goTokenAuth/userstore"
)

const usage = `usage: tokenctl <command> [flags]

commands:
  keygen   print a new key pair as environment assignments
  issue    mint an access/refresh pair for a user
  inspect  verify a token and print its claims
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "keygen":
		err = keygen(args[1:], stdout, stderr)
	case "issue":
		err = issue(args[1:], stdout, stderr)
	case "inspect":
		err = inspect(args[1:], stdin, stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "tokenctl %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func keygen(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	method := fs.String("method", string(jwt.MethodRS256), "signing method: rs256 or ed25519")
	prefix := fs.String("env-prefix", "", "prefix for the printed variable names")
	if err := fs.Parse(args); err != nil {
		return err
	}

	priv, pub, err := jwt.GenerateKeyPair(jwt.SigningMethod(*method))
	if err != nil {
		return err
	}

	name := func(key string) string {
		key = strings.ToUpper(key)
		if *prefix != "" {
			return strings.ToUpper(*prefix) + "_" + key
		}
		return key
	}
	fmt.Fprintf(stdout, "%s=%s\n", name(envconfig.KeySigningMethod), *method)
	fmt.Fprintf(stdout, "%s=%s\n", name(envconfig.KeyPrivateKey), base64.StdEncoding.EncodeToString(priv))
	fmt.Fprintf(stdout, "%s=%s\n", name(envconfig.KeyPublicKey), base64.StdEncoding.EncodeToString(pub))
	return nil
}

func issue(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("issue", flag.ContinueOnError)
	fs.SetOutput(stderr)
	id := fs.String("id", "", "user id (required)")
	email := fs.String("email", "", "user email")
	prefix := fs.String("env-prefix", "", "environment variable prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}

	engine, err := loadEngine(*prefix)
	if err != nil {
		return err
	}
	defer engine.Close()

	pair, err := engine.IssueFor(goTokenAuth.ClaimsUser{ID: *id, Email: *email}, time.Now())
	if err != nil {
		return err
	}
	return writeJSON(stdout, pair)
}

type inspection struct {
	Valid     bool                `json:"valid"`
	Error     string              `json:"error,omitempty"`
	Type      string              `json:"type,omitempty"`
	TokenID   string              `json:"tokenId,omitempty"`
	ExpiresIn string              `json:"expiresIn,omitempty"`
	Claims    *goTokenAuth.Claims `json:"claims,omitempty"`
}

func inspect(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	prefix := fs.String("env-prefix", "", "environment variable prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token := fs.Arg(0)
	if token == "" || token == "-" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		token = line
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("no token given")
	}

	engine, err := loadEngine(*prefix)
	if err != nil {
		return err
	}
	defer engine.Close()

	out := inspection{}
	claims, err := engine.ParseToken(token)
	if err != nil {
		out.Error = err.Error()
		return writeJSON(stdout, out)
	}

	now := time.Now()
	out.Claims = &claims
	out.Type = claims.TokenType()
	out.TokenID = claims.TokenID()
	if err := claims.CheckWindow(now); err != nil {
		out.Error = err.Error()
	} else {
		out.Valid = true
		out.ExpiresIn = claims.ExpiresAt().Sub(now).Round(time.Second).String()
	}
	return writeJSON(stdout, out)
}

func loadEngine(prefix string) (*goTokenAuth.Engine, error) {
	env, err := envconfig.Load(prefix)
	if err != nil {
		return nil, err
	}
	return goTokenAuth.New().
		WithConfig(env.Config).
		WithUserProvider(userstore.NewMemory()).
		Build()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
