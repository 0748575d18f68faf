package jobschema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/printquote/internal/pricing"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	require.NoError(t, err)
	return v
}

func TestDecode_DefaultJobRoundTrips(t *testing.T) {
	v := newValidator(t)
	job := pricing.DefaultJob()
	job.Dimensions = &pricing.Dimensions{Length: 300, Width: 50, Height: 20, Volume: 300}
	data, err := json.Marshal(job)
	require.NoError(t, err)

	got, err := v.Decode(data)

	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestDecode_Rejects(t *testing.T) {
	tests := map[string]string{
		"negative print time": `{"printTime":-1,"filamentType":"PLA","filamentCostPerKg":25,"filamentWeight":50,"powerConsumption":270,"electricityPricePerKwh":0.12,"laborRate":15,"maintenanceBuffer":10,"packagingCost":2,"shippingCost":8,"markup":30}`,
		"missing markup":      `{"printTime":1,"filamentType":"PLA","filamentCostPerKg":25,"filamentWeight":50,"powerConsumption":270,"electricityPricePerKwh":0.12,"laborRate":15,"maintenanceBuffer":10,"packagingCost":2,"shippingCost":8}`,
		"string number":       `{"printTime":"4","filamentType":"PLA","filamentCostPerKg":25,"filamentWeight":50,"powerConsumption":270,"electricityPricePerKwh":0.12,"laborRate":15,"maintenanceBuffer":10,"packagingCost":2,"shippingCost":8,"markup":30}`,
		"unknown field":       `{"electricityCostPerHour":0.12,"printTime":1,"filamentType":"PLA","filamentCostPerKg":25,"filamentWeight":50,"powerConsumption":270,"electricityPricePerKwh":0.12,"laborRate":15,"maintenanceBuffer":10,"packagingCost":2,"shippingCost":8,"markup":30}`,
		"partial dimensions":  `{"dimensions":{"length":1},"printTime":1,"filamentType":"PLA","filamentCostPerKg":25,"filamentWeight":50,"powerConsumption":270,"electricityPricePerKwh":0.12,"laborRate":15,"maintenanceBuffer":10,"packagingCost":2,"shippingCost":8,"markup":30}`,
		"overflowing weight":  `{"printTime":1,"filamentType":"PLA","filamentCostPerKg":1e308,"filamentWeight":1e308,"powerConsumption":270,"electricityPricePerKwh":0.12,"laborRate":15,"maintenanceBuffer":10,"packagingCost":2,"shippingCost":8,"markup":30}`,
		"huge dimension":      `{"dimensions":{"length":1e10,"width":1,"height":1,"volume":1},"printTime":1,"filamentType":"PLA","filamentCostPerKg":25,"filamentWeight":50,"powerConsumption":270,"electricityPricePerKwh":0.12,"laborRate":15,"maintenanceBuffer":10,"packagingCost":2,"shippingCost":8,"markup":30}`,
		"not json":            `{`,
	}

	v := newValidator(t)
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Decode([]byte(payload))
			require.Error(t, err)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
}
