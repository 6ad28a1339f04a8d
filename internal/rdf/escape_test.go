package rdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidIRI(t *testing.T) {
	tests := []struct {
		name string
		iri  string
		want bool
	}{
		{"http IRI", "http://example.org/x", true},
		{"urn", "urn:uuid:0b1f6c4e-7a0e-4c52-9b1a-1f3a2a0e1b2c", true},
		{"share scheme", "share://delta-producer-dumps/a.ttl", true},
		{"empty", "", false},
		{"blank node label", "_:b0", false},
		{"relative", "foo/bar", false},
		{"space", "http://example.org/a b", false},
		{"angle bracket", "http://example.org/<x>", false},
		{"no scheme", "//example.org/x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidIRI(tt.iri))
		})
	}
}

func TestEscapeIRI(t *testing.T) {
	assert.Equal(t, "<http://example.org/x>", EscapeIRI("http://example.org/x"))
	assert.Equal(t, `<http://example.org/a\u0020b>`, EscapeIRI("http://example.org/a b"))
	assert.Equal(t, `<http://example.org/\u003Cx\u003E>`, EscapeIRI("http://example.org/<x>"))
	assert.Equal(t, `<http://example.org/\u005C>`, EscapeIRI(`http://example.org/\`))
}

func TestEscapeString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", `"hello"`},
		{`say "hi"`, `"say \"hi\""`},
		{"line1\nline2", `"line1\nline2"`},
		{"tab\there", `"tab\there"`},
		{`back\slash`, `"back\\slash"`},
		{"bell\x07", `"bell\u0007"`},
		{"émoji ✓", `"émoji ✓"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EscapeString(tt.in))
	}
}

func TestValidLangTag(t *testing.T) {
	assert.True(t, ValidLangTag("fr"))
	assert.True(t, ValidLangTag("nl-BE"))
	assert.True(t, ValidLangTag("zh-Hant-TW"))
	assert.False(t, ValidLangTag(""))
	assert.False(t, ValidLangTag("en us"))
	assert.False(t, ValidLangTag("-en"))
}

func TestTripleForward(t *testing.T) {
	tr := Triple{
		Subject:   IRI("http://example.org/a"),
		Predicate: "^http://example.org/knows",
		Object:    IRI("http://example.org/b"),
	}

	assert.True(t, tr.IsInverse())
	fwd := tr.Forward()
	assert.False(t, fwd.IsInverse())
	assert.Equal(t, IRI("http://example.org/b"), fwd.Subject)
	assert.Equal(t, "http://example.org/knows", fwd.Predicate)
	assert.Equal(t, IRI("http://example.org/a"), fwd.Object)

	plain := Triple{Subject: IRI("http://example.org/a"), Predicate: "http://example.org/p", Object: PlainLiteral("x")}
	assert.Equal(t, plain, plain.Forward())
}
