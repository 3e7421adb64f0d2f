package model

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestMoneyFieldsUseAmountScale(t *testing.T) {
	want := schema.DataType(fmt.Sprintf("numeric(14,%d)", MoneyScale))
	cases := []struct {
		model any
		field string
	}{
		{model: &Profile{}, field: "Balance"},
		{model: &Job{}, field: "Price"},
	}
	for _, tc := range cases {
		parsed, err := schema.Parse(tc.model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)
		field := parsed.LookUpField(tc.field)
		require.NotNil(t, field, tc.field)
		assert.Equal(t, want, field.DataType, tc.field)
	}
}

func TestContractHasParty(t *testing.T) {
	contract := Contract{ClientID: 1, ContractorID: 6}
	assert.True(t, contract.HasParty(1))
	assert.True(t, contract.HasParty(6))
	assert.False(t, contract.HasParty(2))
}
