package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"alice", "alice"},
		{"al_ice", `al\_ice`},
		{"100%", `100\%`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := escapeLike(tt.in); got != tt.want {
				t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !isUniqueViolation(dup) {
		t.Error("expected wrapped 23505 to be a unique violation")
	}

	other := &pgconn.PgError{Code: "23503"}
	if isUniqueViolation(other) {
		t.Error("foreign key violation reported as unique violation")
	}

	if isUniqueViolation(errors.New("plain")) {
		t.Error("plain error reported as unique violation")
	}
}
