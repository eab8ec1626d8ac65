package postgres

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsNotFound(t *testing.T) {
	if !isNotFound(sql.ErrNoRows) {
		t.Fatal("sql.ErrNoRows should be reported as not found")
	}
	if !isNotFound(fmt.Errorf("get profile: %w", sql.ErrNoRows)) {
		t.Fatal("wrapped sql.ErrNoRows should be reported as not found")
	}
	if isNotFound(fmt.Errorf("boom")) {
		t.Fatal("unrelated error should not be reported as not found")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: pq.ErrorCode(uniqueViolationCode)}
	if !isUniqueViolation(dup) {
		t.Fatal("unique violation code should be detected")
	}
	if !isUniqueViolation(fmt.Errorf("add sport: %w", dup)) {
		t.Fatal("wrapped unique violation should be detected")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("foreign key violation should not count as unique violation")
	}
	if isUniqueViolation(fmt.Errorf("boom")) {
		t.Fatal("unrelated error should not count as unique violation")
	}
}
