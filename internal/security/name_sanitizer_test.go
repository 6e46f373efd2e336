package security

import "testing"

func TestNameSanitizer_PlainTextPassesThrough(t *testing.T) {
	s := NewNameSanitizer()

	tests := []struct {
		input string
		want  string
	}{
		{"Ali", "Ali"},
		{"Math A", "Math A"},
		{"O'Brien", "O&#39;Brien"}, // bluemondayはクォートをエスケープする
		{"  Ali  ", "Ali"},
	}

	for _, tt := range tests {
		got := s.Sanitize(tt.input)
		if got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNameSanitizer_StripsHTML(t *testing.T) {
	s := NewNameSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"スクリプトタグ", `<script>alert("x")</script>Ali`, "Ali"},
		{"イメージタグ", `Ali<img src="https://evil.example/x.png">`, "Ali"},
		{"ネストタグ", `<b><i>Math A</i></b>`, "Math A"},
		{"タグのみ", `<script>alert(1)</script>`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNameSanitizer_Idempotent(t *testing.T) {
	s := NewNameSanitizer()

	input := `<b>Ali</b> Rezai`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)

	if once != twice {
		t.Errorf("sanitize should be idempotent: once=%q twice=%q", once, twice)
	}
}
