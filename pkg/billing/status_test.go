package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christiananese/hustle-starter/pkg/billing"
)

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"none", "trialing", "active", "past_due", "unpaid", "canceled"} {
		status, err := billing.ParseStatus(name)
		require.NoError(t, err)
		assert.Equal(t, name, string(status))
	}

	_, err := billing.ParseStatus("paused")
	assert.ErrorIs(t, err, billing.ErrUnknownStatus)
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	m := billing.Transitions()

	allowed := [][2]billing.Status{
		{billing.StatusNone, billing.StatusTrialing},
		{billing.StatusNone, billing.StatusActive},
		{billing.StatusTrialing, billing.StatusActive},
		{billing.StatusActive, billing.StatusPastDue},
		{billing.StatusPastDue, billing.StatusActive},
		{billing.StatusPastDue, billing.StatusUnpaid},
		{billing.StatusUnpaid, billing.StatusPastDue},
		{billing.StatusUnpaid, billing.StatusActive},
		{billing.StatusActive, billing.StatusCanceled},
		{billing.StatusTrialing, billing.StatusCanceled},
		{billing.StatusUnpaid, billing.StatusCanceled},
		{billing.StatusCanceled, billing.StatusActive},
		{billing.StatusCanceled, billing.StatusTrialing},
		{billing.StatusActive, billing.StatusActive},
	}
	for _, tr := range allowed {
		assert.True(t, m.Can(tr[0], tr[1]), "%s -> %s must be allowed", tr[0], tr[1])
	}

	denied := [][2]billing.Status{
		{billing.StatusNone, billing.StatusPastDue},
		{billing.StatusNone, billing.StatusUnpaid},
		{billing.StatusActive, billing.StatusUnpaid},
		{billing.StatusCanceled, billing.StatusPastDue},
		{billing.StatusCanceled, billing.StatusUnpaid},
		{billing.StatusActive, billing.StatusNone},
		{billing.StatusCanceled, billing.StatusNone},
	}
	for _, tr := range denied {
		assert.False(t, m.Can(tr[0], tr[1]), "%s -> %s must be denied", tr[0], tr[1])
	}
}
