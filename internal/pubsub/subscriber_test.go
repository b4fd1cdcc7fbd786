package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"cloud.google.com/go/pubsub/apiv1/pubsubpb"
	"cloud.google.com/go/pubsub/pstest"
)

const (
	testTopic        = "projects/realtimebidding-pubsub/topics/rtbcreative"
	testSubscription = "projects/realtimebidding-pubsub/subscriptions/rtbcreative-12345678"
)

func setupFake(t *testing.T) (*pstest.Server, *Subscriber) {
	t.Helper()
	ctx := context.Background()

	srv := pstest.NewServer()
	t.Cleanup(func() { srv.Close() })

	if _, err := srv.GServer.CreateTopic(ctx, &pubsubpb.Topic{Name: testTopic}); err != nil {
		t.Fatalf("Failed to create topic: %v", err)
	}
	if _, err := srv.GServer.CreateSubscription(ctx, &pubsubpb.Subscription{
		Name:               testSubscription,
		Topic:              testTopic,
		AckDeadlineSeconds: 10,
	}); err != nil {
		t.Fatalf("Failed to create subscription: %v", err)
	}

	sub, err := NewSubscriber(ctx, Config{Endpoint: srv.Addr, Insecure: true})
	if err != nil {
		t.Fatalf("Failed to create subscriber: %v", err)
	}
	t.Cleanup(func() { sub.Close() })

	return srv, sub
}

func publishStatus(srv *pstest.Server, accountID, creativeID, status string) string {
	data := `{"networkPolicyCompliance":{"status":"` + status + `"}}`
	return srv.Publish(testTopic, []byte(data), map[string]string{
		"accountId":  accountID,
		"creativeId": creativeID,
	})
}

func TestPullAndAcknowledge(t *testing.T) {
	srv, sub := setupFake(t)
	ctx := context.Background()

	id1 := publishStatus(srv, "111", "creative-a", "APPROVED")
	id2 := publishStatus(srv, "111", "creative-b", "DISAPPROVED")

	msgs, err := sub.Pull(ctx, testSubscription, 10)
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}

	byCreative := map[string]Message{}
	for _, m := range msgs {
		byCreative[m.CreativeID] = m
	}
	if m := byCreative["creative-a"]; m.AccountID != "111" || m.ID != id1 {
		t.Errorf("unexpected message for creative-a: %+v", m)
	}
	if m := byCreative["creative-b"]; !strings.Contains(m.ServingDecision(), `"status": "DISAPPROVED"`) {
		t.Errorf("unexpected serving decision: %s", m.ServingDecision())
	}

	if err := sub.Acknowledge(ctx, testSubscription, AckIDs(msgs)); err != nil {
		t.Fatalf("Acknowledge failed: %v", err)
	}
	for _, id := range []string{id1, id2} {
		if acks := srv.Message(id).Acks; acks != 1 {
			t.Errorf("message %s: expected 1 ack, got %d", id, acks)
		}
	}
}

func TestPull_Empty(t *testing.T) {
	_, sub := setupFake(t)

	msgs, err := sub.Pull(context.Background(), testSubscription, 0)
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("Expected no messages, got %d", len(msgs))
	}

	// Acknowledging nothing is a no-op
	if err := sub.Acknowledge(context.Background(), testSubscription, nil); err != nil {
		t.Errorf("Acknowledge of nothing failed: %v", err)
	}
}

func TestPull_MaxMessages(t *testing.T) {
	srv, sub := setupFake(t)
	for i := 0; i < 5; i++ {
		publishStatus(srv, "111", "creative", "APPROVED")
	}

	msgs, err := sub.Pull(context.Background(), testSubscription, 3)
	if err != nil {
		t.Fatalf("Pull failed: %v", err)
	}
	if len(msgs) > 3 {
		t.Errorf("Expected at most 3 messages, got %d", len(msgs))
	}
}

func TestPull_UnknownSubscription(t *testing.T) {
	_, sub := setupFake(t)

	_, err := sub.Pull(context.Background(), "projects/p/subscriptions/missing", 1)
	if err == nil || !strings.Contains(err.Error(), "projects/p/subscriptions/missing") {
		t.Errorf("expected error naming the subscription, got %v", err)
	}
}

func TestNewSubscriber_EmulatorHost(t *testing.T) {
	srv := pstest.NewServer()
	defer srv.Close()

	t.Setenv(EmulatorHostEnv, srv.Addr)
	sub, err := NewSubscriber(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Failed to create subscriber: %v", err)
	}
	defer sub.Close()

	if sub.conn == nil {
		t.Error("expected an insecure connection to the emulator")
	}
}

func TestPrintPull(t *testing.T) {
	msgs := []Message{{
		AckID:      "ack-1",
		AccountID:  "111",
		CreativeID: "creative-a",
		Data:       []byte(`{"networkPolicyCompliance":{"status":"APPROVED"}}`),
	}}

	var buf bytes.Buffer
	PrintPull(&buf, testSubscription, msgs)
	PrintAcknowledged(&buf, len(msgs))
	out := buf.String()

	for _, want := range []string{
		"Retrieving messages from subscription: '" + testSubscription + "'",
		"* Creative found for buyer account ID '111' with creative ID 'creative-a' has been updated with the following creative status:",
		`        "status": "APPROVED"`,
		"Acknowledging all 1 messages pulled from the subscription.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	PrintPull(&buf, testSubscription, nil)
	if !strings.Contains(buf.String(), "No messages received from the subscription.") {
		t.Errorf("unexpected empty output: %s", buf.String())
	}
}

func TestMessageJSON(t *testing.T) {
	srv, sub := setupFake(t)
	publishStatus(srv, "222", "creative-c", "APPROVED")

	msgs, err := sub.Pull(context.Background(), testSubscription, 1)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("Pull failed: %v (%d messages)", err, len(msgs))
	}

	b, err := json.Marshal(msgs[0])
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded struct {
		AckID   string `json:"ackId"`
		Message struct {
			Attributes map[string]string `json:"attributes"`
		} `json:"message"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.AckID != msgs[0].AckID || decoded.Message.Attributes["creativeId"] != "creative-c" {
		t.Errorf("unexpected JSON: %s", b)
	}
}
