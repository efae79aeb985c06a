package postgres

import (
	"strings"
	"testing"
	"time"

	"budget/internal/domain/transaction"
)

func TestBuildListQuery_OwnerOnly(t *testing.T) {
	query, args := buildListQuery(42, transaction.Filter{})

	if !strings.Contains(query, "user_id = $1") {
		t.Errorf("query missing owner condition: %s", query)
	}
	if strings.Contains(query, "AND") {
		t.Errorf("query has extra conditions for empty filter: %s", query)
	}
	if !strings.Contains(query, "ORDER BY date DESC, created_at DESC") {
		t.Errorf("query missing ordering: %s", query)
	}
	if len(args) != 1 {
		t.Fatalf("args = %v, want single owner id", args)
	}
	if args[0] != int64(42) {
		t.Errorf("args[0] = %v, want 42", args[0])
	}
}

func TestBuildListQuery_AllCriteria(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	query, args := buildListQuery(1, transaction.Filter{
		From:     from,
		To:       to,
		Category: "Food",
		Search:   "lun",
	})

	for _, cond := range []string{
		"user_id = $1",
		"date >= $2",
		"date <= $3",
		"category = $4",
		"(description ILIKE $5 OR category ILIKE $5)",
	} {
		if !strings.Contains(query, cond) {
			t.Errorf("query missing %q: %s", cond, query)
		}
	}

	want := []any{int64(1), from, to, "Food", "%lun%"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %v, want %v", i, args[i], want[i])
		}
	}
}

func TestBuildListQuery_OneSidedRange(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildListQuery(1, transaction.Filter{From: from})

	if !strings.Contains(query, "date >= $2") {
		t.Errorf("query missing lower bound: %s", query)
	}
	if strings.Contains(query, "date <= ") {
		t.Errorf("query has an upper bound without one being set: %s", query)
	}
	if len(args) != 2 {
		t.Errorf("args = %v, want owner id and lower bound only", args)
	}
}
