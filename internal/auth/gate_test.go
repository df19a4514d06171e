// ABOUTME: Tests for the allow-list authorization gate
// ABOUTME: Validates allow/deny decisions and audit trail recording on denial

package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordedEvent struct {
	chatID int64
	action string
}

type fakeAudit struct {
	events []recordedEvent
}

func (f *fakeAudit) Record(_ context.Context, chatID int64, action, _ string) {
	f.events = append(f.events, recordedEvent{chatID: chatID, action: action})
}

func TestGate_AllowsListedChatID(t *testing.T) {
	audit := &fakeAudit{}
	g := NewGate([]int64{111, 222}, audit, nil)

	assert.True(t, g.Authorized(context.Background(), 111))
	assert.True(t, g.Authorized(context.Background(), 222))
	assert.Empty(t, audit.events, "grants are not audited")
}

func TestGate_DeniesUnlistedChatID(t *testing.T) {
	audit := &fakeAudit{}
	g := NewGate([]int64{111}, audit, nil)

	assert.False(t, g.Authorized(context.Background(), 999))

	assert.Len(t, audit.events, 1)
	assert.Equal(t, int64(999), audit.events[0].chatID)
	assert.Equal(t, "access_denied", audit.events[0].action)
}

func TestGate_EmptyAllowListDeniesEveryone(t *testing.T) {
	g := NewGate(nil, nil, nil)

	assert.True(t, g.Empty())
	assert.False(t, g.Authorized(context.Background(), 1))
	assert.False(t, g.Authorized(context.Background(), 111))
}

func TestGate_NilAuditRecorder(t *testing.T) {
	g := NewGate([]int64{1}, nil, nil)

	// Denial with no audit sink must not panic.
	assert.False(t, g.Authorized(context.Background(), 2))
}
