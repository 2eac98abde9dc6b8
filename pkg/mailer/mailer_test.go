package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithoutKeyIsNoop(t *testing.T) {
	s := New("", "ops@example.com", "Ops")
	_, ok := s.(NoopSender)
	assert.True(t, ok)
	assert.NoError(t, s.Send(context.Background(), Message{To: "ops@example.com", Subject: "hi"}))
}

func TestNewWithKeyUsesSendGrid(t *testing.T) {
	s := New("SG.test", "ops@example.com", "Ops")
	_, ok := s.(*SendGridSender)
	assert.True(t, ok)
}
