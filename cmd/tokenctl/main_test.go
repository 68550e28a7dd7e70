package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goTokenAuth "github.com/MrEthical07/goTokenAuth"
)

// keygenEnv runs keygen and exports its output into the test environment.
func keygenEnv(t *testing.T, method string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run([]string{"keygen", "-method", method, "-env-prefix", "tctl"}, nil, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	sc := bufio.NewScanner(&out)
	lines := 0
	for sc.Scan() {
		name, value, ok := strings.Cut(sc.Text(), "=")
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(name, "TCTL_JWT_"), name)
		t.Setenv(name, value)
		lines++
	}
	require.Equal(t, 3, lines)
}

func TestIssueThenInspect(t *testing.T) {
	keygenEnv(t, "ed25519")

	var out, errOut bytes.Buffer
	code := run([]string{"issue", "-id", "42", "-email", "ada@example.com", "-env-prefix", "TCTL"}, nil, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	var pair goTokenAuth.TokenPair
	require.NoError(t, json.Unmarshal(out.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)

	out.Reset()
	code = run([]string{"inspect", "-env-prefix", "TCTL", pair.RefreshToken}, nil, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, true, got["valid"])
	assert.Equal(t, "refresh", got["type"])
	assert.NotEmpty(t, got["tokenId"])
	claims := got["claims"].(map[string]any)
	assert.Equal(t, "42", claims["user"].(map[string]any)["id"])
}

func TestInspectFromStdinRejectsForeignToken(t *testing.T) {
	keygenEnv(t, "ed25519")
	var out, errOut bytes.Buffer
	require.Equal(t, 0, run([]string{"issue", "-id", "1", "-env-prefix", "TCTL"}, nil, &out, &errOut))
	var pair goTokenAuth.TokenPair
	require.NoError(t, json.Unmarshal(out.Bytes(), &pair))

	keygenEnv(t, "ed25519")
	out.Reset()
	code := run([]string{"inspect", "-env-prefix", "TCTL", "-"}, strings.NewReader(pair.AccessToken+"\n"), &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, false, got["valid"])
	assert.NotEmpty(t, got["error"])
	assert.Nil(t, got["claims"])
}

func TestUsageErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run(nil, nil, &out, &errOut))
	assert.Equal(t, 2, run([]string{"frobnicate"}, nil, &out, &errOut))
	assert.Equal(t, 1, run([]string{"issue"}, nil, &out, &errOut))
	assert.Equal(t, 1, run([]string{"keygen", "-method", "hs256"}, nil, &out, &errOut))
	assert.Equal(t, 0, run([]string{"help"}, nil, &out, &errOut))
}
