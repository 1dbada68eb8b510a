package linkify

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "plain text without links",
			input: "Kindly confirm the email address used during registration.",
			want:  "Kindly confirm the email address used during registration.",
		},
		{
			name:  "known vreg domain maps to apex",
			input: "Go to www.vreg.gov.ng",
			want:  `Go to <a href="https://vreg.gov.ng" target="_blank" rel="noopener noreferrer" style="` + anchorStyle + `">www.vreg.gov.ng</a>`,
		},
		{
			name:  "known trade domain maps to apex",
			input: "Go to www.trade.gov.ng",
			want:  `Go to <a href="https://trade.gov.ng" target="_blank" rel="noopener noreferrer" style="` + anchorStyle + `">www.trade.gov.ng</a>`,
		},
		{
			name:  "other www domain gets https substituted",
			input: "see www.example.com",
			want:  `see <a href="https://example.com" target="_blank" rel="noopener noreferrer" style="` + anchorStyle + `">www.example.com</a>`,
		},
		{
			name:  "bare domain gets https prefix",
			input: "see example.com",
			want:  `see <a href="https://example.com" target="_blank" rel="noopener noreferrer" style="` + anchorStyle + `">example.com</a>`,
		},
		{
			name:  "scheme-prefixed url kept as target",
			input: "see https://example.com/path?q=1",
			want:  `see <a href="https://example.com/path?q=1" target="_blank" rel="noopener noreferrer" style="` + anchorStyle + `">https://example.com/path?q=1</a>`,
		},
		{
			name:  "trailing sentence period stays outside the anchor",
			input: "Go to www.vreg.gov.ng.",
			want:  `Go to <a href="https://vreg.gov.ng" target="_blank" rel="noopener noreferrer" style="` + anchorStyle + `">www.vreg.gov.ng</a>.`,
		},
		{
			name:  "email becomes mailto anchor",
			input: "write to support@vreg.gov.ng",
			want:  `write to <a href="mailto:support@vreg.gov.ng" style="` + anchorStyle + `">support@vreg.gov.ng</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q)\n  got  = %q\n  want = %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailWinsOverURL(t *testing.T) {
	got := Normalize("contact support@vreg.gov.ng or www.vreg.gov.ng")

	if n := strings.Count(got, `href="mailto:support@vreg.gov.ng"`); n != 1 {
		t.Errorf("expected exactly one mailto anchor, got %d in %q", n, got)
	}
	if n := strings.Count(got, `href="https://vreg.gov.ng"`); n != 1 {
		t.Errorf("expected exactly one vreg.gov.ng anchor, got %d in %q", n, got)
	}
	// The email's domain part must not be wrapped as a URL.
	if n := strings.Count(got, "<a "); n != 2 {
		t.Errorf("expected exactly two anchors, got %d in %q", n, got)
	}
}

func TestNormalizeURLWithEmbeddedEmail(t *testing.T) {
	got := Normalize("see example.com/x?e=a@b.com for details")

	// A token containing '@' is never wrapped as a URL, so the embedded
	// address gets a single mailto anchor and nothing nests inside an href.
	if n := strings.Count(got, `href="mailto:a@b.com"`); n != 1 {
		t.Errorf("expected exactly one mailto anchor, got %d in %q", n, got)
	}
	if strings.Contains(got, `href="https://example.com`) {
		t.Errorf("token containing '@' was wrapped as a URL: %q", got)
	}
	if n := strings.Count(got, "<a "); n != 1 {
		t.Errorf("expected exactly one anchor, got %d in %q", n, got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"contact support@vreg.gov.ng or www.vreg.gov.ng",
		"Go to www.trade.gov.ng, click on Agencies then FIRS to validate your TIN",
		"Send proof to payments@vreg.gov.ng today.",
		"see https://example.com/path and www.example.com.",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q:\n  once  = %q\n  twice = %q", input, once, twice)
		}
	}
}
