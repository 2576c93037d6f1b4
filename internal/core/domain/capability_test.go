package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kassatrack/cash_report_app/internal/apperrors"
	"github.com/kassatrack/cash_report_app/internal/core/domain"
)

func TestParseCapability(t *testing.T) {
	c, err := domain.ParseCapability("reports:view_all")
	require.NoError(t, err)
	assert.Equal(t, domain.CapReportsViewAll, c)

	_, err = domain.ParseCapability("reports:teleport")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseCapabilities_AllOrNothing(t *testing.T) {
	_, err := domain.ParseCapabilities([]string{"reports:view_all", "bogus"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	caps, err := domain.ParseCapabilities([]string{"reports:view_all", "users:view"})
	require.NoError(t, err)
	assert.Len(t, caps, 2)
}

func TestCapabilitySetKeys_CatalogOrder(t *testing.T) {
	set := domain.NewCapabilitySet(domain.CapRolesManage, domain.CapUsersView, domain.CapReportsCreate)
	assert.Equal(t, []string{"users:view", "reports:create", "roles:manage"}, set.Keys())
}

func TestCapabilitySetJSONRoundTrip(t *testing.T) {
	set := domain.NewCapabilitySet(domain.CapReportsCreate, domain.CapSettingsView)

	b, err := json.Marshal(set)
	require.NoError(t, err)

	var decoded domain.CapabilitySet
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.True(t, decoded.Has(domain.CapReportsCreate))
	assert.True(t, decoded.Has(domain.CapSettingsView))
	assert.Len(t, decoded, 2)
}

// Stale sessions may carry keys removed from the catalog; they just drop.
func TestCapabilitySetUnmarshal_DropsUnknownKeys(t *testing.T) {
	var decoded domain.CapabilitySet
	require.NoError(t, json.Unmarshal([]byte(`["reports:create","legacy:power"]`), &decoded))
	assert.Len(t, decoded, 1)
	assert.True(t, decoded.Has(domain.CapReportsCreate))
}

func TestAllCapabilitiesMatchesCatalog(t *testing.T) {
	all := domain.AllCapabilities()
	catalog := domain.CapabilityCatalog()
	require.Equal(t, len(catalog), len(all))
	for i, info := range catalog {
		assert.Equal(t, info.Key, all[i])
		assert.NotEmpty(t, info.Description)
		assert.NotEmpty(t, info.Category)
	}
}
