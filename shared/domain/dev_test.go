package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestOSListJSON(t *testing.T) {
	var single OSList
	require.NoError(t, json.Unmarshal([]byte(`"Linux Ubuntu 22.04"`), &single))
	assert.Equal(t, OSList{"Linux Ubuntu 22.04"}, single)

	var many OSList
	require.NoError(t, json.Unmarshal([]byte(`["Windows 11","iOS 17"]`), &many))
	assert.Equal(t, []string{"Windows", "iOS"}, many.Names())

	out, err := json.Marshal(single)
	require.NoError(t, err)
	assert.Equal(t, `"Linux Ubuntu 22.04"`, string(out))

	out, err = json.Marshal(OSList(nil))
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	assert.Error(t, json.Unmarshal([]byte(`42`), &many))
}

func TestOSListBSON(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"os": bson.A{"Android 13", "macOS 14"}, "dev_status": "complete"})
	require.NoError(t, err)

	var p DevProject
	require.NoError(t, bson.Unmarshal(raw, &p))
	assert.Equal(t, OSList{"Android 13", "macOS 14"}, p.OS)

	raw, err = bson.Marshal(bson.M{"os": "Windows"})
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(raw, &p))
	assert.Equal(t, OSList{"Windows"}, p.OS)
}

func TestDevProjectPlannedDays(t *testing.T) {
	p := DevProject{StartDate: "2025-01-01", EndDate: "2025-01-31"}
	assert.Equal(t, 30, p.PlannedDays())
	assert.Equal(t, 0, DevProject{StartDate: "2025-01-01"}.PlannedDays())
}

func TestDevProjectValidate(t *testing.T) {
	ok := DevProject{CompanyId: "I00001", OS: OSList{"Linux"}, StartDate: "2025-01-01", Status: DevInProgress}
	assert.NoError(t, ok.Validate())

	err := DevProject{Status: "paused"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dev_status")
	assert.Contains(t, err.Error(), "os")
}
