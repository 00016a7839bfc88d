package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-18")
	require.NoError(t, err)
	assert.Equal(t, Date("2025-06-18"), d)

	d, err = ParseDate("2025-06-18T10:11:12Z")
	require.NoError(t, err)
	assert.Equal(t, Date("2025-06-18"), d)

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("18/06/2025")
	assert.Error(t, err)
}

func TestDateCompare(t *testing.T) {
	assert.True(t, Date("2025-06-19").After("2025-06-18"))
	assert.False(t, Date("2025-06-18").After("2025-06-18"))
	assert.False(t, Date("").After("2025-06-18"))
	assert.Equal(t, "2025-06", Date("2025-06-18").Month())
}

func TestDateJSON(t *testing.T) {
	type doc struct {
		Start Date `json:"start"`
		End   Date `json:"end"`
	}
	out, err := json.Marshal(doc{Start: "2025-01-02"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2025-01-02","end":null}`, string(out))

	var in doc
	require.NoError(t, json.Unmarshal([]byte(`{"start":"2025-01-02","end":null}`), &in))
	assert.Equal(t, Date("2025-01-02"), in.Start)
	assert.True(t, in.End.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"start":"yesterday"}`), &in))
}

func TestDateBSONAcceptsDatetime(t *testing.T) {
	when := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	raw, err := bson.Marshal(bson.M{
		"contract_start": primitive.NewDateTimeFromTime(when),
		"contract_end":   "2024-12-31",
		"custom_field":   "kept",
	})
	require.NoError(t, err)

	var c Company
	require.NoError(t, bson.Unmarshal(raw, &c))
	assert.Equal(t, Date("2024-03-05"), c.ContractStart)
	assert.Equal(t, Date("2024-12-31"), c.ContractEnd)
	assert.Equal(t, "kept", c.Extra["custom_field"])
}
