package store

import "testing"

func TestQueryBuilder_NoConditions(t *testing.T) {
	sql, params := NewQueryBuilder().Build("SELECT * FROM t", "id", 50)
	want := "SELECT * FROM t ORDER BY id LIMIT $1"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if len(params) != 1 || params[0] != 50 {
		t.Fatalf("params = %v, want [50]", params)
	}
}

func TestQueryBuilder_EqSkipsEmpty(t *testing.T) {
	sql, params := NewQueryBuilder().
		Eq("session_id", "s1").
		Eq("category", "").
		Build("SELECT * FROM t", "", 10)
	want := "SELECT * FROM t WHERE session_id = $1 LIMIT $2"
	if sql != want {
		t.Fatalf("sql = %q, want %q", sql, want)
	}
	if len(params) != 2 || params[0] != "s1" {
		t.Fatalf("params = %v", params)
	}
}

func TestQueryBuilder_LimitClamped(t *testing.T) {
	_, params := NewQueryBuilder().Build("SELECT 1", "", 999999)
	if params[len(params)-1] != 2000 {
		t.Fatalf("limit = %v, want clamped to 2000", params[len(params)-1])
	}
	_, params = NewQueryBuilder().Build("SELECT 1", "", 0)
	if params[len(params)-1] != 1 {
		t.Fatalf("limit = %v, want clamped to 1", params[len(params)-1])
	}
}
