package signup

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSender stores what it was asked to send and fails for addresses
// listed in fail.
type recordingSender struct {
	mu   sync.Mutex
	sent []Registration
	fail map[string]bool
}

func (s *recordingSender) Send(_ context.Context, reg Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail[reg.Email] {
		return ErrDeliveryFailed
	}
	s.sent = append(s.sent, reg)
	return nil
}

func TestSubmitSuccess(t *testing.T) {
	sender := &recordingSender{}
	reg := validRegistration()
	reg.StudentName = "  Ada  "

	res := Submit(context.Background(), sender, reg, nil)

	assert.True(t, res.OK)
	assert.Equal(t, SuccessMessage, res.Message)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Ada", sender.sent[0].StudentName)
	assert.Equal(t, DefaultMessage, sender.sent[0].Message)
}

func TestSubmitInvalidDoesNotSend(t *testing.T) {
	sender := &recordingSender{}
	res := Submit(context.Background(), sender, Registration{StudentName: "A"}, nil)

	assert.False(t, res.OK)
	assert.Equal(t, InvalidMessage, res.Message)
	assert.Contains(t, res.Fields, FieldStudentName)
	assert.Empty(t, sender.sent)
}

func TestSubmitDeliveryFailure(t *testing.T) {
	reg := validRegistration()
	sender := &recordingSender{fail: map[string]bool{reg.Email: true}}

	res := Submit(context.Background(), sender, reg, nil)

	assert.False(t, res.OK)
	assert.Equal(t, FailureMessage, res.Message)
	assert.ErrorIs(t, res.Err, ErrDeliveryFailed)
}

const batchYAML = `
registrations:
  - student_name: Ada
    parent_name: Grace
    email: grace@example.com
    age: "9"
  - student_name: Linus
    parent_name: Nils
    email: nils@example.com
    age: "11"
    message: Likes robots
  - student_name: X
    parent_name: Y
    email: bad
    age: "3"
`

func TestLoadBatchAndSubmitAll(t *testing.T) {
	regs, err := LoadBatch(strings.NewReader(batchYAML))
	require.NoError(t, err)
	require.Len(t, regs, 3)
	assert.Equal(t, "Likes robots", regs[1].Message)

	sender := &recordingSender{fail: map[string]bool{"nils@example.com": true}}
	results := SubmitAll(context.Background(), sender, regs, 2, nil)

	require.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.Equal(t, FailureMessage, results[1].Message)
	assert.Equal(t, InvalidMessage, results[2].Message)
	assert.Len(t, sender.sent, 1)
}

func TestLoadBatchEmpty(t *testing.T) {
	regs, err := LoadBatch(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, regs)

	_, err = LoadBatch(strings.NewReader("registrations: [\n"))
	assert.Error(t, err)
}
