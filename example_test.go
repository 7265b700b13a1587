package relay_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/aretw0/relay"
	"github.com/aretw0/relay/pkg/actions"
	"github.com/aretw0/relay/pkg/adapters/openai"
	redisadapter "github.com/aretw0/relay/pkg/adapters/redis"
)

// ExampleNew shows the minimal path from catalog to conversation: build a
// bridge, create an assistant carrying the translated action catalog, open
// a session, and send one message.
func ExampleNew() {
	provider := openai.New(os.Getenv("OPENAI_API_KEY"))
	gateway := actions.NewClient("https://actions.zapier.com/api/v1", os.Getenv("RELAY_ACTIONS_KEY"))

	bridge, err := relay.New(provider, gateway)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	info, err := bridge.NewAssistant(ctx, "sheets-helper", "Use the available tools to help with spreadsheets.")
	if err != nil {
		log.Fatal(err)
	}

	sess, err := bridge.StartSession(ctx, info)
	if err != nil {
		log.Fatal(err)
	}

	reply, err := bridge.Send(ctx, sess.ID, "Find the row for ACME Corp")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(reply.Text)
}

// ExampleNew_redis shows a multi-replica setup: sessions persisted in Redis
// and guarded by a distributed lock, with a faster poll cadence.
func ExampleNew_redis() {
	provider := openai.New(os.Getenv("OPENAI_API_KEY"))
	gateway := actions.NewClient("https://actions.zapier.com/api/v1", os.Getenv("RELAY_ACTIONS_KEY"))

	store := redisadapter.New("localhost:6379", "", 0)
	defer store.Close()

	bridge, err := relay.New(provider, gateway,
		relay.WithSessionStore(store),
		relay.WithLocker(redisadapter.NewLocker(store.Client(), "relay:")),
		relay.WithPollInterval(2*time.Second),
	)
	if err != nil {
		log.Fatal(err)
	}

	sess, err := bridge.ResumeSession(context.Background(), "existing-session-id")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(sess.ThreadID)
}
