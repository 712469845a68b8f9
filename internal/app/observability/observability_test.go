package observability

import "testing"

func TestNormalizedPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/forms/9f2c1a4e-7d3b-4e8f-9a1b-2c3d4e5f6a7b/questions", want: "/api/v1/forms/{id}/questions"},
		{in: "/api/v1/questions/text/42", want: "/api/v1/questions/text/{id}"},
		{in: "/api/v1/auth/login", want: "/api/v1/auth/login"},
		{in: "/healthz", want: "/healthz"},
		{in: "", want: "/"},
	}

	for _, tc := range tests {
		if got := normalizedPath(tc.in); got != tc.want {
			t.Fatalf("normalizedPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
