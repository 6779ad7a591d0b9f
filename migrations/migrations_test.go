package migrations

import (
	"strings"
	"testing"
)

// The repositories bind these columns by name in raw SQL, so a drifted
// migration fails at runtime with an undefined-column error. Pin the ones
// that queries depend on.
func TestEmbeddedSchemaColumns(t *testing.T) {
	cases := []struct {
		file    string
		columns []string
	}{
		{"00002_create_leads.sql", []string{
			"assigned_to_id", "managed_by_id", "total_call_attempts",
			"converted_at", "last_contacted_at", "next_follow_up_date",
		}},
		{"00003_create_calls_followups.sql", []string{
			"telecaller_id", "scheduled_for", "assigned_to_id",
		}},
	}
	for _, tc := range cases {
		sql, err := FS.ReadFile(tc.file)
		if err != nil {
			t.Fatalf("read %s: %v", tc.file, err)
		}
		for _, col := range tc.columns {
			if !strings.Contains(string(sql), col) {
				t.Errorf("%s: missing column %s", tc.file, col)
			}
		}
	}
}

func TestCallsTableDoesNotUseUserID(t *testing.T) {
	sql, err := FS.ReadFile("00003_create_calls_followups.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if strings.Contains(string(sql), "user_id") {
		t.Fatal("calls schema names the column telecaller_id; user_id would break every calls query")
	}
}
