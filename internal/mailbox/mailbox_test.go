package mailbox

import (
	"context"
	"testing"
	"time"
)

func TestMailbox_LatestWins(t *testing.T) {
	mb := New[string]()

	mb.Put("cron")
	mb.Put("watch")
	mb.Put("reload")

	if !mb.HasJob() {
		t.Fatal("HasJob() = false after Put")
	}

	got, ok := mb.TryTake()
	if !ok || got != "reload" {
		t.Errorf("TryTake() = %q, %v, want reload", got, ok)
	}
	if _, ok := mb.TryTake(); ok {
		t.Error("mailbox should be empty after take")
	}
	if mb.HasJob() {
		t.Error("HasJob() = true on empty mailbox")
	}
}

func TestMailbox_TakeBlocksUntilPut(t *testing.T) {
	mb := New[int]()
	done := make(chan int, 1)

	go func() {
		j, _ := mb.Take(context.Background())
		done <- j
	}()

	select {
	case <-done:
		t.Fatal("Take() returned before Put")
	case <-time.After(20 * time.Millisecond):
	}

	mb.Put(42)

	select {
	case j := <-done:
		if j != 42 {
			t.Errorf("Take() = %d, want 42", j)
		}
	case <-time.After(time.Second):
		t.Fatal("Take() did not return after Put")
	}
}

func TestMailbox_TakeCanceled(t *testing.T) {
	mb := New[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok := mb.Take(ctx); ok {
		t.Error("Take() on canceled context returned a job")
	}
}
