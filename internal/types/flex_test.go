package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexListOfFlexID(t *testing.T) {
	var single struct {
		IDs FlexList[FlexID] `json:"issueId"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"issueId":"12"}`), &single))
	assert.Equal(t, []FlexID{12}, single.IDs.Slice())

	var many struct {
		IDs FlexList[FlexID] `json:"issueId"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"issueId":[3,"4"]}`), &many))
	assert.Equal(t, []FlexID{3, 4}, many.IDs.Slice())

	var bad struct {
		IDs FlexList[FlexID] `json:"issueId"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"issueId":"x"}`), &bad))
}
