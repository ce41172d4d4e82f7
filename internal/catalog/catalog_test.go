package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFillsConfiguredProducts(t *testing.T) {
	c := New(map[string]string{"midnight-freestyle": "prod_midnight"})
	require.Len(t, c, 5)

	assert.False(t, c[0].Configured())
	assert.True(t, c[1].Configured())
	assert.Equal(t, "prod_midnight", c[1].ExternalID)
}

func TestNewDoesNotMutateBuiltins(t *testing.T) {
	_ = New(map[string]string{"aurora-cruiser": "prod_aurora"})
	for _, p := range Skateboards() {
		assert.Empty(t, p.ExternalID, p.ID)
	}
}

func TestAt(t *testing.T) {
	c := Skateboards()

	p, err := c.At(1)
	require.NoError(t, err)
	assert.Equal(t, "aurora-cruiser", p.ID)

	p, err = c.At(5)
	require.NoError(t, err)
	assert.Equal(t, Subscription, p.Kind)
	assert.Equal(t, "yearly", p.BillingPeriod)

	_, err = c.At(0)
	assert.Error(t, err)
	_, err = c.At(6)
	assert.Error(t, err)
}
