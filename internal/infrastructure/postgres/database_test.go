package postgres

import (
	"strings"
	"testing"
	"time"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "parameters kept",
			query: "SELECT id FROM users WHERE email = $1",
			want:  "SELECT id FROM users WHERE email = $1",
		},
		{
			name:  "string literal replaced",
			query: "SELECT id FROM users WHERE email = 'farmer@example.com'",
			want:  "SELECT id FROM users WHERE email = '?'",
		},
		{
			name:  "escaped quote",
			query: "UPDATE users SET name = 'O''Brien' WHERE id = $1",
			want:  "UPDATE users SET name = '?' WHERE id = $1",
		},
		{
			name:  "numeric literal replaced",
			query: "SELECT * FROM fcm_notifications LIMIT 20",
			want:  "SELECT * FROM fcm_notifications LIMIT ?",
		},
		{
			name:  "identifier digits kept",
			query: "SELECT col1 FROM t2",
			want:  "SELECT col1 FROM t2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeQuery(tt.query); got != tt.want {
				t.Errorf("sanitizeQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeQuery_Truncates(t *testing.T) {
	got := sanitizeQuery("SELECT " + strings.Repeat("x", 400))
	if len(got) != 256+len("...") {
		t.Errorf("len(sanitizeQuery()) = %d, want %d", len(got), 256+len("..."))
	}
}

func TestExtractSQLVerb(t *testing.T) {
	tests := map[string]string{
		"  select id from users": "SELECT",
		"INSERT INTO users":      "INSERT",
		"COMMIT":                 "COMMIT",
	}
	for query, want := range tests {
		if got := extractSQLVerb(query); got != want {
			t.Errorf("extractSQLVerb(%q) = %q, want %q", query, got, want)
		}
	}
}

func TestPoolConfig_WithDefaults(t *testing.T) {
	got := PoolConfig{MaxOpenConns: 10}.withDefaults()
	if got.MaxOpenConns != 10 || got.MaxIdleConns != 5 || got.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("withDefaults() = %+v", got)
	}
}
