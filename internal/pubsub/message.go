package pubsub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"cloud.google.com/go/pubsub/apiv1/pubsubpb"
	"github.com/muesli/reflow/indent"
	"google.golang.org/protobuf/encoding/protojson"
)

// Message is a creative status notification
type Message struct {
	AckID      string
	ID         string
	AccountID  string
	CreativeID string
	Data       []byte

	raw *pubsubpb.ReceivedMessage
}

func newMessage(rm *pubsubpb.ReceivedMessage) Message {
	m := rm.GetMessage()
	return Message{
		AckID:      rm.GetAckId(),
		ID:         m.GetMessageId(),
		AccountID:  m.GetAttributes()["accountId"],
		CreativeID: m.GetAttributes()["creativeId"],
		Data:       m.GetData(),
		raw:        rm,
	}
}

// AckIDs returns the ack IDs of msgs
func AckIDs(msgs []Message) []string {
	ids := make([]string, len(msgs))
	for i, m := range msgs {
		ids[i] = m.AckID
	}
	return ids
}

// ServingDecision returns the message data as indented JSON. Data that is
// not JSON comes back as is.
func (m Message) ServingDecision() string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, m.Data, "", "  "); err != nil {
		return string(m.Data)
	}
	return buf.String()
}

// MarshalJSON renders the received message the way the Pub/Sub REST API does
func (m Message) MarshalJSON() ([]byte, error) {
	if m.raw == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(m.raw)
}

// PrintPull writes the pull report for msgs
func PrintPull(w io.Writer, subscription string, msgs []Message) {
	fmt.Fprintf(w, "Retrieving messages from subscription: '%s'\n", subscription)
	if len(msgs) == 0 {
		fmt.Fprintln(w, "No messages received from the subscription.")
		return
	}

	for _, m := range msgs {
		fmt.Fprintf(w, "* Creative found for buyer account ID '%s' with creative ID '%s' has been updated with the following creative status:\n",
			m.AccountID, m.CreativeID)
		fmt.Fprintln(w, indent.String(m.ServingDecision(), 4))
		fmt.Fprintln(w)
	}
}

// PrintAcknowledged writes the acknowledgement line
func PrintAcknowledged(w io.Writer, n int) {
	fmt.Fprintf(w, "Acknowledging all %d messages pulled from the subscription.\n", n)
}
