package render_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/payflow/internal/branding"
	"github.com/MrJamesThe3rd/payflow/internal/invoice"
	"github.com/MrJamesThe3rd/payflow/internal/render"
)

func TestTruncateLink(t *testing.T) {
	exact := strings.Repeat("a", 60)
	long := strings.Repeat("b", 61)

	assert.Equal(t, exact, render.TruncateLink(exact))
	assert.Equal(t, strings.Repeat("b", 57)+"...", render.TruncateLink(long))
	assert.Len(t, render.TruncateLink(long), 60)
	assert.Empty(t, render.TruncateLink("  "))
}

func TestTerms(t *testing.T) {
	inv := &invoice.Invoice{}
	p := &branding.Profile{}

	assert.Equal(t, render.DefaultTerms, render.Terms(inv, p))

	p.PaymentTerms = "Net 15"
	assert.Equal(t, "Net 15", render.Terms(inv, p))

	inv.Terms = " Due on receipt "
	assert.Equal(t, "Due on receipt", render.Terms(inv, p))
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, render.StatusGreen, render.StatusColor(invoice.StatusPaid))
	assert.Equal(t, render.StatusAmber, render.StatusColor(invoice.StatusSent))
	assert.Equal(t, render.StatusAmber, render.StatusColor("pending"))
	assert.Equal(t, render.StatusRed, render.StatusColor(invoice.StatusOverdue))
	assert.Equal(t, render.StatusRed, render.StatusColor(invoice.StatusCancelled))
}
