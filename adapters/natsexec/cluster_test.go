package natsexec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windratio/domain/ratio"
)

func TestNewCluster_Options(t *testing.T) {
	c := NewCluster(nil,
		WithSubject("farm.jobs"),
		WithMaxInFlight(4),
		WithTimeout(30*time.Second),
	)

	assert.Equal(t, "cluster", c.Name())
	assert.Equal(t, "farm.jobs", c.subject)
	assert.Equal(t, 4, c.maxInFlight)
	assert.Equal(t, 30*time.Second, c.timeout)
}

func TestNewCluster_Defaults(t *testing.T) {
	c := NewCluster(nil)
	assert.Equal(t, DefaultSubject, c.subject)
	assert.Equal(t, 16, c.maxInFlight)
	assert.Equal(t, 2*time.Minute, c.timeout)
}

func TestReplyRoundTrip(t *testing.T) {
	table := ratio.NewTable()
	require.NoError(t, table.AddColumn(ratio.WdBinCol, []float64{1, 3}))
	require.NoError(t, table.AddColumn("baseline", []float64{0.8, 0.9}))

	data, err := json.Marshal(reply{Table: table})
	require.NoError(t, err)

	var rep reply
	require.NoError(t, json.Unmarshal(data, &rep))
	require.NotNil(t, rep.Table)
	assert.Empty(t, rep.Error)
	assert.Equal(t, table.Names(), rep.Table.Names())
	assert.Equal(t, 0.8, rep.Table.Cell(0, "baseline"))

	data, err = json.Marshal(reply{Error: "resample blew up"})
	require.NoError(t, err)
	var errRep reply
	require.NoError(t, json.Unmarshal(data, &errRep))
	assert.Nil(t, errRep.Table)
	assert.Equal(t, "resample blew up", errRep.Error)
}
