package provider

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	cases := map[string]string{
		"3,65":       "3.65",
		" 2.45 % ":   "2.45",
		"+0.61%":     "0.61",
		"1 234,50":   "1234.5",
		"1,234.50":   "1234.5",
		"1.234,50":   "1234.5",
		"-0.12":      "-0.12",
		"3 ,10": "3.1",
	}
	for raw, want := range cases {
		got, err := ParseNumber(raw)
		if err != nil {
			t.Fatalf("ParseNumber(%q): %v", raw, err)
		}
		if got.String() != want {
			t.Fatalf("ParseNumber(%q) = %s, expected %s", raw, got.String(), want)
		}
	}
}

func TestParseNumberPlaceholders(t *testing.T) {
	for _, raw := range []string{"", "-", "N/A", "None", " "} {
		if _, err := ParseNumber(raw); !errors.Is(err, ErrNoValue) {
			t.Fatalf("ParseNumber(%q): expected ErrNoValue, got %v", raw, err)
		}
	}
	if _, err := ParseNumber("abc"); err == nil || errors.Is(err, ErrNoValue) {
		t.Fatalf("expected parse error for garbage, got %v", err)
	}
}

func TestNumberUnmarshal(t *testing.T) {
	var out struct {
		A Number `json:"a"`
		B Number `json:"b"`
		C Number `json:"c"`
		D Number `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":1.5,"b":"2.25","c":null,"d":"None"}`), &out))
	require.True(t, out.A.Valid)
	require.Equal(t, "1.5", out.A.Decimal.String())
	require.Equal(t, "2.25", out.B.Decimal.String())
	require.False(t, out.C.Valid)
	require.False(t, out.D.Valid)

	_, err := Require("demo", "price", out.C)
	require.Error(t, err)
}
