package ai

import "testing"

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
		found bool
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`, true},
		{"markdown fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`, true},
		{"prose around", `Voici la réponse: {"a": {"b": 2}} merci`, `{"a": {"b": 2}}`, true},
		{"brace in string", `{"a": "val}ue"}`, `{"a": "val}ue"}`, true},
		{"escaped quote", `{"a": "say \"hi\""}`, `{"a": "say \"hi\""}`, true},
		{"no object", "pas de json ici", "", false},
		{"unbalanced", `{"a": 1`, "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, found := ExtractJSON(c.in)
			if found != c.found || got != c.want {
				t.Errorf("ExtractJSON(%q) = %q, %v; want %q, %v", c.in, got, found, c.want, c.found)
			}
		})
	}
}
