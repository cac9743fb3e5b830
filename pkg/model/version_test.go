package model

import (
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/glorpus-work/modsync/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  SemanticVersion
		expectErr bool
	}{
		{name: "plain triple", input: "1.2.3", expected: SemanticVersion{1, 2, 3}},
		{name: "zero", input: "0.0.0", expected: ZeroVersion},
		{name: "multi digit", input: "10.20.300", expected: SemanticVersion{10, 20, 300}},
		{name: "surrounding whitespace", input: " 5.4.3 ", expected: SemanticVersion{5, 4, 3}},
		{name: "two components", input: "1.2", expectErr: true},
		{name: "four components", input: "1.2.3.4", expectErr: true},
		{name: "prerelease suffix", input: "1.2.3-beta", expectErr: true},
		{name: "leading v", input: "v1.2.3", expectErr: true},
		{name: "negative", input: "-1.2.3", expectErr: true},
		{name: "empty", input: "", expectErr: true},
		{name: "non numeric", input: "a.b.c", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				assert.True(t, stderrors.Is(err, errors.ErrParse), "expected ErrParse, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestIsOlder(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		candidate string
		expected  bool
	}{
		{name: "patch bump", current: "1.0.0", candidate: "1.0.1", expected: true},
		{name: "minor bump", current: "1.0.0", candidate: "1.2.0", expected: true},
		{name: "major bump", current: "1.9.9", candidate: "2.0.0", expected: true},
		{name: "equal", current: "1.2.3", candidate: "1.2.3", expected: false},
		{name: "ahead at major", current: "2.0.0", candidate: "1.9.9", expected: false},
		{name: "ahead at minor", current: "1.3.0", candidate: "1.2.9", expected: false},
		{name: "ahead at minor with lower patch", current: "1.5.0", candidate: "1.4.7", expected: false},
		{name: "not installed", current: "0.0.0", candidate: "0.0.1", expected: true},
		{name: "numeric not lexical", current: "1.9.0", candidate: "1.10.0", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsOlder(tt.current, tt.candidate)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsOlder_ParseError(t *testing.T) {
	_, err := IsOlder("1.0", "1.0.0")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParse)
	assert.Contains(t, err.Error(), "current version")

	_, err = IsOlder("1.0.0", "latest")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParse)
	assert.Contains(t, err.Error(), "candidate version")
}

func TestSemanticVersion_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		V SemanticVersion `json:"v"`
	}{V: SemanticVersion{3, 1, 4}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":"3.1.4"}`, string(data))

	var decoded struct {
		V SemanticVersion `json:"v"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"v":"2.7.18"}`), &decoded))
	assert.Equal(t, SemanticVersion{2, 7, 18}, decoded.V)

	err = json.Unmarshal([]byte(`{"v":"2.7"}`), &decoded)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParse)
}

func drawVersion(t *rapid.T, label string) SemanticVersion {
	return SemanticVersion{
		Major: rapid.Uint64Range(0, 50).Draw(t, label+".major"),
		Minor: rapid.Uint64Range(0, 50).Draw(t, label+".minor"),
		Patch: rapid.Uint64Range(0, 50).Draw(t, label+".patch"),
	}
}

func TestIsOlderThan_Irreflexive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := drawVersion(t, "v")
		if v.IsOlderThan(v) {
			t.Fatalf("%s reported older than itself", v)
		}
	})
}

func TestIsOlderThan_Antisymmetric(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawVersion(t, "a")
		b := drawVersion(t, "b")
		if a == b {
			return
		}
		if a.IsOlderThan(b) == b.IsOlderThan(a) {
			t.Fatalf("exactly one of %s<%s and %s<%s must hold", a, b, b, a)
		}
	})
}

func TestIsOlderThan_MatchesLexicographicOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawVersion(t, "a")
		b := drawVersion(t, "b")
		want := a.Major < b.Major ||
			(a.Major == b.Major && a.Minor < b.Minor) ||
			(a.Major == b.Major && a.Minor == b.Minor && a.Patch < b.Patch)
		if got := a.IsOlderThan(b); got != want {
			t.Fatalf("IsOlderThan(%s, %s) = %v, want %v", a, b, got, want)
		}
	})
}

func TestParseVersion_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := drawVersion(t, "v")
		parsed, err := ParseVersion(v.String())
		if err != nil {
			t.Fatalf("parse %s: %v", v, err)
		}
		if parsed != v {
			t.Fatalf("round trip changed %s into %s", v, parsed)
		}
	})
}
