package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getcohort/cohort/internal/model"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestCSVImporterLoad(t *testing.T) {
	path := writeCSV(t, `customer_id,age,income,total_spent,gender,location,favorite_color
cust_001,34,72000,1500,female,urban,teal
cust_002,51,95000,4200,male,rural,
`)

	profiles, err := NewCSV(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	p := profiles[0]
	assert.Equal(t, "cust_001", p.ID)
	assert.Equal(t, 34.0, p.Numeric[model.AttrAge])
	assert.Equal(t, 72000.0, p.Numeric[model.AttrIncome])
	assert.Equal(t, 1500.0, p.Numeric[model.AttrTotalSpent])
	assert.Equal(t, "female", p.Categorical[model.AttrGender])
	assert.Equal(t, "urban", p.Categorical[model.AttrLocation])

	// Unrecognized columns never become attributes.
	_, hasColor := p.Categorical["favorite_color"]
	assert.False(t, hasColor)
}

func TestCSVImporterEmptyCellMeansAbsent(t *testing.T) {
	path := writeCSV(t, `customer_id,age,income,gender
cust_001,34,,female
`)

	profiles, err := NewCSV(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	assert.True(t, profiles[0].Has(model.AttrAge))
	assert.False(t, profiles[0].Has(model.AttrIncome))
}

func TestCSVImporterSkipsBadRows(t *testing.T) {
	path := writeCSV(t, `customer_id,age,income
cust_001,34,72000
cust_002,not_a_number,50000
,40,60000
cust_004,28,45000
`)

	profiles, err := NewCSV(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "cust_001", profiles[0].ID)
	assert.Equal(t, "cust_004", profiles[1].ID)
}

func TestCSVImporterMissingIDColumn(t *testing.T) {
	path := writeCSV(t, `age,income
34,72000
`)

	_, err := NewCSV(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer_id")
}

func TestCSVImporterMissingFile(t *testing.T) {
	_, err := NewCSV(filepath.Join(t.TempDir(), "absent.csv")).Load(context.Background())
	assert.Error(t, err)
}

func TestCSVImporterCancelledContext(t *testing.T) {
	path := writeCSV(t, `customer_id,age
cust_001,34
`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCSV(path).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
