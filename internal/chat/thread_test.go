package chat_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/akwaba-labs/djobi/internal/chat"
)

func TestNewThreadStartsWithWelcome(t *testing.T) {
	t.Parallel()

	th := chat.NewThread()
	msgs := th.Messages()
	if len(msgs) != 1 {
		t.Fatalf("NewThread: expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Text != chat.WelcomeText || msgs[0].FromUser {
		t.Fatalf("NewThread: unexpected welcome message: %+v", msgs[0])
	}
	if msgs[0].ID == "" {
		t.Fatal("NewThread: welcome message has empty ID")
	}
}

func TestThreadPreservesOrder(t *testing.T) {
	t.Parallel()

	th := chat.NewThread()
	th.AddUser("Comment attirer des clients ?")
	th.AddAssistant("👥 Commence par le bouche-à-oreille.")
	th.AddUser("Et avec WhatsApp ?")

	msgs := th.Messages()
	if len(msgs) != 4 {
		t.Fatalf("Messages: expected 4, got %d", len(msgs))
	}
	wantFromUser := []bool{false, true, false, true}
	for i, want := range wantFromUser {
		if msgs[i].FromUser != want {
			t.Errorf("Messages[%d]: fromUser = %v, want %v", i, msgs[i].FromUser, want)
		}
	}
	if msgs[1].Text != "Comment attirer des clients ?" {
		t.Fatalf("Messages[1]: unexpected text %q", msgs[1].Text)
	}
}

func TestThreadMessagesIsACopy(t *testing.T) {
	t.Parallel()

	th := chat.NewThread()
	msgs := th.Messages()
	msgs[0].Text = "mutated"
	if th.Messages()[0].Text == "mutated" {
		t.Fatal("Messages: caller mutation leaked into the thread")
	}
}

func TestThreadConcurrentAppend(t *testing.T) {
	t.Parallel()

	th := chat.NewThread()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			th.AddUser("question")
			th.AddAssistant("réponse")
		}()
	}
	wg.Wait()

	if got := th.Len(); got != 41 {
		t.Fatalf("Len: expected 41 messages, got %d", got)
	}
}

func TestThreadHistoryLimitKeepsWelcome(t *testing.T) {
	t.Parallel()

	th := chat.NewThread(chat.WithHistoryLimit(4))
	for i := range 5 {
		th.AddUser(fmt.Sprintf("question %d", i))
		th.AddAssistant(fmt.Sprintf("réponse %d", i))
	}

	msgs := th.Messages()
	if len(msgs) != 4 {
		t.Fatalf("Messages: expected 4 retained, got %d", len(msgs))
	}
	if msgs[0].Text != chat.WelcomeText {
		t.Fatalf("Messages: welcome was dropped, first is %q", msgs[0].Text)
	}
	if msgs[len(msgs)-1].Text != "réponse 4" {
		t.Fatalf("Messages: expected newest reply last, got %q", msgs[len(msgs)-1].Text)
	}
}
