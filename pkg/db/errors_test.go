package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsUniqueViolationPgx(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"}

	if !IsUniqueViolation(dup, "products_sku_key") {
		t.Fatal("expected match on SQLSTATE and constraint name")
	}
	if !IsUniqueViolation(dup, "") {
		t.Fatal("expected match when no constraint name is requested")
	}
	if IsUniqueViolation(dup, "warehouses_code_key") {
		t.Fatal("expected mismatch for a different constraint")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "products_sku_key") {
		t.Fatal("foreign key violation must not read as unique violation")
	}
}

func TestIsUniqueViolationWrapped(t *testing.T) {
	dup := fmt.Errorf("create product: %w", &pgconn.PgError{Code: "23505", ConstraintName: "products_sku_key"})
	if !IsUniqueViolation(dup, "products_sku_key") {
		t.Fatal("expected wrapped pgx error to match")
	}
}

func TestIsUniqueViolationPq(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "warehouses_code_key"}

	if !IsUniqueViolation(dup, "warehouses_code_key") {
		t.Fatal("expected match on lib/pq error")
	}
	if IsUniqueViolation(&pq.Error{Code: "42601"}, "warehouses_code_key") {
		t.Fatal("syntax error must not read as unique violation")
	}
}

func TestIsUniqueViolationSqlite(t *testing.T) {
	// Sqlite reports only a message, no structured constraint name, so the
	// requested constraint cannot be checked and any unique violation matches.
	dup := errors.New("UNIQUE constraint failed: warehouses.code")

	if !IsUniqueViolation(dup, "warehouses_code_key") {
		t.Fatal("expected sqlite unique violation to match")
	}
	if IsUniqueViolation(errors.New("no such table: warehouses"), "warehouses_code_key") {
		t.Fatal("unrelated sqlite error must not match")
	}
	if IsUniqueViolation(nil, "warehouses_code_key") {
		t.Fatal("nil error must not match")
	}
}
