package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := map[string]string{
		"  plain note ":                        "plain note",
		"<b>bold</b>   text":                   "bold text",
		"&lt;script&gt;alert(1)&lt;/script&gt;": "alert(1)",
		"line one\nline two":                   "line one\nline two",
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Errorf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTextPtrNil(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
}
