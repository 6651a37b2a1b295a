package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jvilaplana/holdfolio/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return st
}

func sampleInvestments() []models.Investment {
	return []models.Investment{
		{
			ExternalID:         "doc-1",
			Name:               "Fondo Global",
			Amount:             25000,
			ReturnPercentage:   12.3,
			IsEconomicActivity: true,
			Category:           "fondos_inversion",
			SubCategory:        "fondos_inversion",
			DetailCategory:     "renta_variable",
			InvestmentType:     models.TypeIndirect,
			AccountCode:        "2050001",
			Description:        "equity fund",
			SourceEndpoint:     "documents",
		},
		{
			ExternalID:         "doc-2",
			Name:               "Bono del Estado",
			Amount:             45000,
			ReturnPercentage:   6.8,
			IsEconomicActivity: false,
			Category:           "valores_negociables",
			SubCategory:        "valores_negociables",
			DetailCategory:     "renta_fija",
			InvestmentType:     models.TypeDirect,
		},
		{
			ExternalID:         "inv-3",
			Name:               "Cuenta liquidez",
			Amount:             500,
			IsEconomicActivity: false,
			Category:           "fondos_liquidos",
			SubCategory:        "fondos_liquidos",
			DetailCategory:     "renta_fija",
			InvestmentType:     models.TypeCash,
		},
	}
}

func TestReplaceAllAndList(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.ReplaceAll(sampleInvestments()))

	got, err := st.List()
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Ordered by amount descending.
	assert.Equal(t, "doc-2", got[0].ExternalID)
	assert.Equal(t, "doc-1", got[1].ExternalID)
	assert.Equal(t, "inv-3", got[2].ExternalID)

	assert.Equal(t, "Fondo Global", got[1].Name)
	assert.Equal(t, 12.3, got[1].ReturnPercentage)
	assert.True(t, got[1].IsEconomicActivity)
	assert.Equal(t, models.TypeIndirect, got[1].InvestmentType)
	assert.Equal(t, "2050001", got[1].AccountCode)
	assert.Equal(t, "documents", got[1].SourceEndpoint)
}

func TestReplaceAll_ReplacesWholesale(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.ReplaceAll(sampleInvestments()))

	replacement := []models.Investment{
		{
			ExternalID:     "new-1",
			Name:           "Nueva posición",
			Amount:         999,
			Category:       "mixtos",
			SubCategory:    "mixtos",
			DetailCategory: "commodities",
			InvestmentType: models.TypeDirect,
		},
	}
	require.NoError(t, st.ReplaceAll(replacement))

	got, err := st.List()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new-1", got[0].ExternalID)
}

func TestReplaceAll_EmptyBatchClearsStore(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.ReplaceAll(sampleInvestments()))
	require.NoError(t, st.ReplaceAll(nil))

	got, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListByCategory(t *testing.T) {
	st := openTestStore(t)

	require.NoError(t, st.ReplaceAll(sampleInvestments()))

	funds, err := st.ListByCategory("fondos_inversion")
	require.NoError(t, err)
	require.Len(t, funds, 1)
	assert.Equal(t, "doc-1", funds[0].ExternalID)

	none, err := st.ListByCategory("hedge_funds")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestList_EmptyStore(t *testing.T) {
	st := openTestStore(t)

	got, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, got)
}
