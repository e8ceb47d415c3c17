package common

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOnlyJSON(t *testing.T) {
	b, err := json.Marshal(DateOnly{time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.JSONEq(t, `"2023-05-01"`, string(b))

	var d DateOnly
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &d))
	assert.Equal(t, 29, d.Day())

	assert.Error(t, json.Unmarshal([]byte(`"2023-02-30"`), &d))

	b, err = json.Marshal(DateOnly{})
	require.NoError(t, err)
	assert.JSONEq(t, `""`, string(b))
}

func TestLocalDateTimeJSON(t *testing.T) {
	b, err := json.Marshal(LocalDateTime{time.Date(2023, 5, 1, 17, 30, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.JSONEq(t, `"2023-05-01T17:30:00"`, string(b))

	var l LocalDateTime
	require.NoError(t, json.Unmarshal([]byte(`"2023-05-01T08:00:00"`), &l))
	assert.Equal(t, 8, l.Hour())
}

type query struct {
	Mode string `form:"mode" binding:"omitempty,oneof=basic detailed"`
	Name string `form:"name" binding:"required"`
}

func TestFormatBindingError(t *testing.T) {
	err := binding.Validator.ValidateStruct(&query{Mode: "summary"})
	require.Error(t, err)

	msg := FormatBindingError(err)
	assert.Contains(t, msg, "Field 'mode' must be one of [basic detailed], got 'summary'")
	assert.Contains(t, msg, "Field 'name' is required")

	assert.Equal(t, "boom", FormatBindingError(errors.New("boom")))
	assert.Empty(t, FormatBindingError(nil))
}

func TestResponses(t *testing.T) {
	b, err := json.Marshal(NewErrorResponse("no valid data").WithRunID("run-1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"no valid data","runId":"run-1"}`, string(b))

	b, err = json.Marshal(NewListResponse([]int{1, 2}, 2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[1,2],"pagination":{"total":2}}`, string(b))
}
