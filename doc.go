/*
Package relay bridges a conversational assistant and an HTTP action provider.

It discovers the provider's exposed actions, translates their OpenAPI schema
into function tools the assistant understands, and drives assistant runs to
completion: when a run pauses in requires_action, Relay resolves each
requested tool call back to its action id, executes the action, and submits
the outputs so the run can resume.

# Concept

The remote providers own all durable state (assistants, threads, runs,
messages). Relay holds only ids and a cached tool catalog, carried in an
explicit Session value. The core loop is strictly sequential per
conversation and performs no retries: failures are surfaced or, for
individual tool calls, logged and withheld so the run stalls on that call
instead of receiving a fabricated result.

# Usage

	provider := openaiadapter.New(os.Getenv("OPENAI_API_KEY"))
	gateway := actions.NewClient("https://actions.example.com/api/v1", os.Getenv("RELAY_ACTIONS_KEY"))

	bridge, err := relay.New(provider, gateway)
	if err != nil {
		log.Fatal(err)
	}

	info, err := bridge.NewAssistant(ctx, "Sheets Helper", "You help with spreadsheets.")
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
*/
package relay
