package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNullableFieldsEncodeAsNull(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	raw, err := json.Marshal(&SeatAllocation{ID: "a1", SeatID: "s1", StudentID: "st1", ShiftID: "sh1", StartDate: at})
	require.NoError(t, err)
	var alloc map[string]any
	require.NoError(t, json.Unmarshal(raw, &alloc))
	require.Contains(t, alloc, "end_date")
	require.Nil(t, alloc["end_date"])
	require.NotContains(t, alloc, "seat")

	raw, err = json.Marshal(&Organization{ID: "o1", Name: "Acme", OwnerID: "u1", CreatedAt: at})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"branch_count":0`)

	raw, err = json.Marshal(&Student{ID: "st1", BranchID: "b1", Name: "Ada", Status: StudentActive, CreatedAt: at})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"phone":null`)

	raw, err = json.Marshal(&Shift{ID: "sh1", BranchID: "b1", Name: "Reserved", CreatedAt: at})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"start_time":null`)
	require.Contains(t, string(raw), `"end_time":null`)
}

func TestSeatAllocationActive(t *testing.T) {
	a := &SeatAllocation{}
	require.True(t, a.Active())
	end := time.Now()
	a.EndDate = &end
	require.False(t, a.Active())
}
