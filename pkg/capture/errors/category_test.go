package errors_test

import (
	"context"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/randalmurphal/capture/pkg/capture/errors"
	"github.com/stretchr/testify/assert"
)

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "transient", errors.CategoryTransient.String())
	assert.Equal(t, "permanent", errors.CategoryPermanent.String())
	assert.Equal(t, "unknown", errors.Category(99).String())
}

func TestCategorizeStatus(t *testing.T) {
	tests := []struct {
		status int
		want   errors.Category
	}{
		{408, errors.CategoryTransient},
		{429, errors.CategoryTransient},
		{500, errors.CategoryTransient},
		{502, errors.CategoryTransient},
		{503, errors.CategoryTransient},
		{400, errors.CategoryPermanent},
		{401, errors.CategoryPermanent},
		{403, errors.CategoryPermanent},
		{404, errors.CategoryPermanent},
		{413, errors.CategoryPermanent},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errors.CategorizeStatus(tt.status), "status %d", tt.status)
	}
}

func TestCategorize_DeliveryError(t *testing.T) {
	t.Run("status drives classification", func(t *testing.T) {
		transient := &errors.DeliveryError{StatusCode: 503, Endpoint: "https://inputs.example.com"}
		assert.Equal(t, errors.CategoryTransient, errors.Categorize(transient))

		permanent := &errors.DeliveryError{StatusCode: 401, Endpoint: "https://inputs.example.com"}
		assert.Equal(t, errors.CategoryPermanent, errors.Categorize(permanent))
	})

	t.Run("request never completed", func(t *testing.T) {
		err := &errors.DeliveryError{Err: stderrors.New("connection refused")}
		// No status and an uncategorizable cause: treated as a
		// network-level failure
		assert.Equal(t, errors.CategoryPermanent, errors.Categorize(err.Err))
		assert.Equal(t, errors.CategoryTransient, errors.Categorize(&errors.DeliveryError{}))
	})

	t.Run("wrapped delivery error", func(t *testing.T) {
		inner := &errors.DeliveryError{StatusCode: 500}
		wrapped := stderrors.Join(stderrors.New("flush"), inner)
		assert.Equal(t, errors.CategoryTransient, errors.Categorize(wrapped))
	})
}

func TestCategorize_ContextErrors(t *testing.T) {
	assert.Equal(t, errors.CategoryTransient, errors.Categorize(context.Canceled))
	assert.Equal(t, errors.CategoryTransient, errors.Categorize(context.DeadlineExceeded))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	assert.Equal(t, errors.CategoryTransient, errors.Categorize(ctx.Err()))
}

type fakeNetError struct{}

func (fakeNetError) Error() string   { return "network unreachable" }
func (fakeNetError) Timeout() bool   { return false }
func (fakeNetError) Temporary() bool { return true }

var _ net.Error = fakeNetError{}

func TestCategorize_NetError(t *testing.T) {
	assert.Equal(t, errors.CategoryTransient, errors.Categorize(fakeNetError{}))

	wrapped := &errors.DeliveryError{Err: fakeNetError{}}
	assert.Equal(t, errors.CategoryTransient, errors.Categorize(wrapped))
}

func TestCategorize_ExplicitOverride(t *testing.T) {
	// Explicit classification wins over anything derivable from the cause
	err := errors.Permanent(context.Canceled, "deliver")
	assert.Equal(t, errors.CategoryPermanent, errors.Categorize(err))

	err2 := errors.Transient(stderrors.New("broker busy"), "deliver")
	assert.Equal(t, errors.CategoryTransient, errors.Categorize(err2))
}

func TestCategorize_Defaults(t *testing.T) {
	assert.Equal(t, errors.CategoryPermanent, errors.Categorize(nil))
	assert.Equal(t, errors.CategoryPermanent, errors.Categorize(stderrors.New("unknown")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, errors.IsRetryable(&errors.DeliveryError{StatusCode: 503}))
	assert.True(t, errors.IsRetryable(context.DeadlineExceeded))
	assert.False(t, errors.IsRetryable(&errors.DeliveryError{StatusCode: 400}))
	assert.False(t, errors.IsRetryable(stderrors.New("schema rejected")))
}

func TestErrorMessages(t *testing.T) {
	withStatus := &errors.DeliveryError{StatusCode: 503, Endpoint: "https://inputs.example.com"}
	assert.Equal(t, "delivery to https://inputs.example.com failed: HTTP 503", withStatus.Error())

	withCause := &errors.DeliveryError{Err: stderrors.New("dial tcp: refused")}
	assert.Contains(t, withCause.Error(), "dial tcp: refused")

	cat := errors.Transient(stderrors.New("boom"), "deliver")
	assert.Contains(t, cat.Error(), "deliver")
	assert.Contains(t, cat.Error(), "transient")
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root")
	del := &errors.DeliveryError{Err: cause}
	assert.ErrorIs(t, del, cause)

	cat := errors.Permanent(cause, "")
	assert.ErrorIs(t, cat, cause)
}
