package order

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildUpdateGuardsOnExpectedStatus(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	next := StatusReady
	query, args := buildUpdate(id, StatusInProgress, Patch{Status: &next})

	want := `UPDATE orders SET updated_at = NOW(), status = $1 WHERE id = $2 AND status = $3 RETURNING `
	if !strings.HasPrefix(query, want) {
		t.Fatalf("query = %q\nwant prefix %q", query, want)
	}
	if strings.Contains(query, "rating IS NULL") {
		t.Fatalf("status change must not guard on rating: %q", query)
	}
	if len(args) != 3 || args[0] != string(StatusReady) || args[1] != id || args[2] != string(StatusInProgress) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildUpdateKeepsFirstCompletionTime(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	done := StatusCompleted
	at := time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC)
	query, args := buildUpdate(id, StatusReady, Patch{Status: &done, CompletedAt: &at})

	if !strings.Contains(query, "completed_at = COALESCE(completed_at, $2)") {
		t.Fatalf("query = %q, want set-once completed_at", query)
	}
	if !strings.Contains(query, "WHERE id = $3 AND status = $4 RETURNING") {
		t.Fatalf("query = %q, want id and status guard after the patch args", query)
	}
	if len(args) != 4 || args[1] != at || args[3] != string(StatusReady) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildUpdateFeedbackIsSetOnce(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	rating, text := 5, "Lovely dosa"
	query, args := buildUpdate(id, StatusCompleted, Patch{Rating: &rating, FeedbackText: &text})

	want := `SET updated_at = NOW(), rating = $1, feedback_text = $2 WHERE id = $3 AND status = $4 AND rating IS NULL RETURNING `
	if !strings.Contains(query, want) {
		t.Fatalf("query = %q\nwant %q", query, want)
	}
	if !strings.HasSuffix(query, orderColumns) {
		t.Fatalf("query does not return the order columns: %q", query)
	}
	if len(args) != 4 || args[0] != 5 || args[1] != text || args[2] != id {
		t.Fatalf("args = %v", args)
	}
}
