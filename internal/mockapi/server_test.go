package mockapi

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/timmy/memeboard/internal/backend"
	"github.com/timmy/memeboard/internal/domain"
)

func testClient(t *testing.T) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(NewServer().Handler())
	t.Cleanup(srv.Close)
	return backend.New(&backend.Config{BaseURL: srv.URL})
}

// TestPublicFeedPagination walks the public corpus through the real
// backend client and verifies page boundaries.
func TestPublicFeedPagination(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	first, err := client.ListMemes(ctx, domain.FeedScopePublic, "", 1, 30)
	if err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	if first.Total != 95 || len(first.Items) != 30 {
		t.Fatalf("page 1: total=%d items=%d, want 95/30", first.Total, len(first.Items))
	}
	if !first.HasMore() {
		t.Error("page 1 of 95 should have more")
	}

	last, err := client.ListMemes(ctx, domain.FeedScopePublic, "", 4, 30)
	if err != nil {
		t.Fatalf("page 4 failed: %v", err)
	}
	if len(last.Items) != 5 {
		t.Errorf("page 4 items: got %d, want 5", len(last.Items))
	}
	if last.HasMore() {
		t.Error("final partial page should not have more")
	}

	// Deterministic corpus: same request, same first item.
	again, err := client.ListMemes(ctx, domain.FeedScopePublic, "", 1, 30)
	if err != nil {
		t.Fatalf("repeat page 1 failed: %v", err)
	}
	if again.Items[0].ID != first.Items[0].ID {
		t.Errorf("corpus not deterministic: %s vs %s", again.Items[0].ID, first.Items[0].ID)
	}
}

// TestPublicFeedSearch verifies title filtering narrows the result set
// and updates the total.
func TestPublicFeedSearch(t *testing.T) {
	client := testClient(t)

	result, err := client.ListMemes(context.Background(), domain.FeedScopePublic, "gopher", 1, 30)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if result.Total == 0 {
		t.Fatal("search for a seeded title matched nothing")
	}
	if result.Total >= 95 {
		t.Errorf("search total %d did not narrow the corpus", result.Total)
	}
	for _, item := range result.Items {
		if item.Title == "" {
			t.Error("matched item has no title")
		}
	}
}

// TestPersonalFeedOffsets verifies the limit/offset endpoint slices
// correctly and the client backfills page metadata.
func TestPersonalFeedOffsets(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	first, err := client.ListMemes(ctx, domain.FeedScopeMine, "", 1, 10)
	if err != nil {
		t.Fatalf("page 1 failed: %v", err)
	}
	if first.Total != 23 || len(first.Items) != 10 {
		t.Fatalf("page 1: total=%d items=%d, want 23/10", first.Total, len(first.Items))
	}
	if first.Page != 1 || first.PageSize != 10 {
		t.Errorf("backfilled metadata: page=%d size=%d", first.Page, first.PageSize)
	}

	third, err := client.ListMemes(ctx, domain.FeedScopeMine, "", 3, 10)
	if err != nil {
		t.Fatalf("page 3 failed: %v", err)
	}
	if len(third.Items) != 3 {
		t.Errorf("page 3 items: got %d, want 3", len(third.Items))
	}
	if third.HasMore() {
		t.Error("page 3 of 23 at size 10 should be the last")
	}
	if third.Items[0].ID == first.Items[0].ID {
		t.Error("offset paging returned overlapping slices")
	}
}

// TestScriptedGeneration drives a job from submission to completion and
// verifies the meme lands in the personal feed.
func TestScriptedGeneration(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	job, err := client.Generate(ctx, &domain.GenerateRequest{Prompt: "a gopher on a surfboard"})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if job.ID == "" || job.Status != domain.MemeStatusPending {
		t.Fatalf("accepted job: %+v", job)
	}

	statuses := []domain.MemeStatus{}
	for i := 0; i < completesAfter; i++ {
		polled, err := client.JobStatus(ctx, job.ID)
		if err != nil {
			t.Fatalf("poll %d failed: %v", i+1, err)
		}
		statuses = append(statuses, polled.Status)
	}

	want := []domain.MemeStatus{domain.MemeStatusPending, domain.MemeStatusProcessing, domain.MemeStatusCompleted}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("poll %d status: got %s, want %s", i+1, statuses[i], want[i])
		}
	}

	// The job id is gone after completion; a later poll is a 404.
	if _, err := client.JobStatus(ctx, job.ID); !backend.IsNotFound(err) {
		t.Errorf("post-completion poll: got %v, want not found", err)
	}

	// The finished meme joins the personal feed under the prompt title.
	mine, err := client.ListMemes(ctx, domain.FeedScopeMine, "", 1, 10)
	if err != nil {
		t.Fatalf("personal feed failed: %v", err)
	}
	if mine.Total != 24 {
		t.Errorf("personal total after generation: got %d, want 24", mine.Total)
	}
	if mine.Items[0].Title != "a gopher on a surfboard" {
		t.Errorf("newest personal meme title: got %q", mine.Items[0].Title)
	}
}

func TestGenerateRequiresPrompt(t *testing.T) {
	client := testClient(t)
	if _, err := client.Generate(context.Background(), &domain.GenerateRequest{}); err == nil {
		t.Error("empty prompt accepted")
	}
}

func TestUnknownJobIs404(t *testing.T) {
	client := testClient(t)
	if _, err := client.JobStatus(context.Background(), "no-such-job"); !backend.IsNotFound(err) {
		t.Errorf("unknown job: got %v, want not found", err)
	}
}

func TestStyles(t *testing.T) {
	client := testClient(t)
	styles, err := client.Styles(context.Background())
	if err != nil {
		t.Fatalf("styles failed: %v", err)
	}
	if len(styles) == 0 {
		t.Error("no styles returned")
	}
}

func TestAuthFlow(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()

	resp, err := client.Login(ctx, &domain.LoginRequest{Username: "tim", Password: "secret"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.User.Username != "tim" || resp.AccessToken == "" {
		t.Errorf("login response: %+v", resp)
	}

	if _, err := client.Login(ctx, &domain.LoginRequest{Username: "tim", Password: "wrong"}); err == nil {
		t.Error("wrong password accepted")
	}

	if err := client.Logout(ctx); err != nil {
		t.Errorf("logout failed: %v", err)
	}
}
