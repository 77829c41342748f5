package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-allocation/internal/apperror"
)

func TestObserveAllocation(t *testing.T) {
	ok := testutil.ToFloat64(AllocationOpsTotal.WithLabelValues("assign", "ok"))
	conflict := testutil.ToFloat64(AllocationOpsTotal.WithLabelValues("assign", "conflict"))
	internal := testutil.ToFloat64(AllocationOpsTotal.WithLabelValues("assign", "internal"))

	ObserveAllocation("assign", nil)
	ObserveAllocation("assign", apperror.Conflict("seat is already assigned in this shift"))
	ObserveAllocation("assign", errors.New("boom"))

	require.Equal(t, ok+1, testutil.ToFloat64(AllocationOpsTotal.WithLabelValues("assign", "ok")))
	require.Equal(t, conflict+1, testutil.ToFloat64(AllocationOpsTotal.WithLabelValues("assign", "conflict")))
	require.Equal(t, internal+1, testutil.ToFloat64(AllocationOpsTotal.WithLabelValues("assign", "internal")))
}
