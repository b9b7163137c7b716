package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderClassification(t *testing.T) {
	cases := map[string]struct {
		historical bool
		active     bool
	}{
		StatusPending:   {historical: false, active: true},
		StatusCancelled: {historical: true, active: false},
		StatusDelivered: {historical: true, active: false},
		StatusReady:     {historical: true, active: false},
		StatusDeleted:   {historical: false, active: false},
		"Expédiée":      {historical: false, active: true},
	}

	for status, want := range cases {
		o := Order{Status: status}
		assert.Equal(t, want.historical, o.IsHistorical(), status)
		assert.Equal(t, want.active, o.IsActive(), status)
	}
}

func TestLineItemsTotal(t *testing.T) {
	assert.Equal(t, 0.0, LineItemsTotal(nil))
	assert.Equal(t, 20.0, LineItemsTotal([]LineItem{{Price: 10, Quantity: 2}}))
	// 0.1 * 3 + 0.2 doit rester exact au centime
	assert.Equal(t, 0.5, LineItemsTotal([]LineItem{{Price: 0.1, Quantity: 3}, {Price: 0.2, Quantity: 1}}))
}

func TestProductHelpers(t *testing.T) {
	red := ColorVariant{ID: primitive.NewObjectID(), Color: "Rouge", Image: "red.jpg"}
	p := Product{Images: []string{"main.jpg", "alt.jpg"}, Colors: []ColorVariant{red}}

	assert.Equal(t, "main.jpg", p.PrimaryImage())
	assert.Equal(t, "", Product{}.PrimaryImage())

	got, ok := p.FindColor(red.ID.Hex())
	assert.True(t, ok)
	assert.Equal(t, "Rouge", got.Color)

	_, ok = p.FindColor(primitive.NewObjectID().Hex())
	assert.False(t, ok)
}
