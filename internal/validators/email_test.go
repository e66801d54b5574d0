package validators

import (
	"errors"
	"net"
	"testing"
)

func TestIsEmail(t *testing.T) {
	cases := map[string]bool{
		"dana@example.com":        true,
		"dana.smith@garden.co":    true,
		"dana@localhost":          false,
		"Dana <dana@example.com>": false,
		"no-at-sign":              false,
		"":                        false,
	}
	for in, want := range cases {
		if got := IsEmail(in); got != want {
			t.Fatalf("IsEmail(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Dana@Example.COM "); got != "dana@example.com" {
		t.Fatalf("expected dana@example.com, got %q", got)
	}
}

func TestIsEmailDomainValid(t *testing.T) {
	origMX, origIP := lookupMX, lookupIP
	t.Cleanup(func() { lookupMX, lookupIP = origMX, origIP })

	lookupMX = func(domain string) ([]*net.MX, error) {
		if domain == "mail.test" {
			return []*net.MX{{Host: "mx.mail.test."}}, nil
		}
		return nil, errors.New("no mx")
	}
	lookupIP = func(domain string) ([]net.IP, error) {
		if domain == "web.test" {
			return []net.IP{net.ParseIP("192.0.2.1")}, nil
		}
		return nil, errors.New("no host")
	}

	cases := map[string]bool{
		"a@mail.test":    true,
		"a@web.test":     true,
		"a@nowhere.test": false,
		"a@":             false,
		"nowhere":        false,
	}
	for in, want := range cases {
		if got := IsEmailDomainValid(in); got != want {
			t.Fatalf("IsEmailDomainValid(%q): expected %v, got %v", in, want, got)
		}
	}
}
