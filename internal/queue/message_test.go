package queue

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"intentrelay.app/relay/internal/model"
)

var _ = Describe("audit messages", func() {
	var evt model.IngestionEvent

	BeforeEach(func() {
		leadID := int64(99)
		score := 185
		tier := model.TierHot
		evt = model.IngestionEvent{
			ID:                   1001,
			EventID:              "6f1c2a5e-3f5d-4a0e-9d57-3b0b8b1f2c11",
			Endpoint:             model.ChannelIntake,
			Source:               "pricing-page",
			LeadID:               &leadID,
			Score:                &score,
			Tier:                 &tier,
			AutomationsAttempted: 4,
			AutomationsSucceeded: 3,
			AutomationsFailed:    1,
			Payload:              json.RawMessage(`{"leadData":{"email":"ada@analytical.io"}}`),
			ReceivedAt:           time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC),
		}
	})

	It("parses what the producer writes", func() {
		trace := "4bf92f3577b34da6a3ce929d0e0e4736"
		values, err := auditValues(AuditMessage{Event: evt, TraceID: &trace})
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(HaveKeyWithValue("attempt", 1))

		msg, err := ParseMessage(redis.XMessage{ID: "1-0", Values: stringify(values)})
		Expect(err).NotTo(HaveOccurred())

		Expect(msg.ID).To(Equal("1-0"))
		Expect(msg.EventID).To(Equal(evt.EventID))
		Expect(msg.TraceID).To(Equal(trace))
		Expect(msg.Attempt).To(Equal(1))
		Expect(*msg.Event.LeadID).To(Equal(int64(99)))
		Expect(*msg.Event.Tier).To(Equal(model.TierHot))
		Expect(msg.Event.Payload).To(MatchJSON(evt.Payload))
		Expect(msg.Event.ReceivedAt.Equal(evt.ReceivedAt)).To(BeTrue())
	})

	It("rejects a message without an event body", func() {
		_, err := ParseMessage(redis.XMessage{ID: "1-0", Values: map[string]any{"event_id": "x"}})
		Expect(err).To(MatchError(ContainSubstring("missing event")))
	})

	It("rejects a body that does not match its event id", func() {
		values, err := auditValues(AuditMessage{Event: evt})
		Expect(err).NotTo(HaveOccurred())
		values["event_id"] = "someone-else"

		_, err = ParseMessage(redis.XMessage{ID: "1-0", Values: stringify(values)})
		Expect(err).To(HaveOccurred())
	})

	It("rejects a malformed attempt counter", func() {
		values, err := auditValues(AuditMessage{Event: evt})
		Expect(err).NotTo(HaveOccurred())
		values["attempt"] = "many"

		_, err = ParseMessage(redis.XMessage{ID: "1-0", Values: stringify(values)})
		Expect(err).To(MatchError(ContainSubstring("parsing attempt")))
	})

	It("bumps the attempt when rebuilding values for a requeue", func() {
		values, err := auditValues(AuditMessage{Event: evt})
		Expect(err).NotTo(HaveOccurred())
		msg, err := ParseMessage(redis.XMessage{ID: "1-0", Values: stringify(values)})
		Expect(err).NotTo(HaveOccurred())

		requeued := messageValues(msg, msg.Attempt+1)

		Expect(requeued).To(HaveKeyWithValue("attempt", 2))
		Expect(requeued).To(HaveKeyWithValue("event_id", evt.EventID))
		Expect(requeued).To(HaveKey("event"))
	})
})

// stringify mimics what Redis hands back: every field value is a string.
func stringify(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		switch t := v.(type) {
		case string:
			out[k] = t
		default:
			b, _ := json.Marshal(t)
			out[k] = string(b)
		}
	}
	return out
}
