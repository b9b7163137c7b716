package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOrderOperation(t *testing.T) {
	before := testutil.ToFloat64(orderOperations.WithLabelValues("create", "success"))

	RecordOrderOperation("create", true)
	RecordOrderOperation("create", false)

	assert.Equal(t, before+1, testutil.ToFloat64(orderOperations.WithLabelValues("create", "success")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(orderOperations.WithLabelValues("create", "error")), 1.0)
}

func TestRecordNotification(t *testing.T) {
	before := testutil.ToFloat64(notifications.WithLabelValues("error"))

	RecordNotification(false, 3)

	assert.Equal(t, before+1, testutil.ToFloat64(notifications.WithLabelValues("error")))
}
