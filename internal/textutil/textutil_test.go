package textutil

import "testing"

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain ascii", input: "Filial", want: "filial"},
		{name: "accented", input: "Agência", want: "agencia"},
		{name: "cedilla", input: "Pontuação", want: "pontuacao"},
		{name: "tilde", input: "João", want: "joao"},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Fold(tc.input); got != tc.want {
				t.Fatalf("unexpected fold for %q: want %q, got %q", tc.input, tc.want, got)
			}
		})
	}
}
