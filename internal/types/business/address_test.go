package business_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taxbridge/taxbridge-api/internal/types/business"
)

func TestAddressNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   business.Address
		want business.Address
	}{
		{
			name: "uppercases and trims fields",
			in: business.Address{
				Street1: "  123 Main Street ",
				City:    " Austin ",
				State:   "tx",
				Zip5:    "78701",
				Country: "us",
			},
			want: business.Address{
				Street1: "123 MAIN ST",
				City:    "AUSTIN",
				State:   "TX",
				Zip5:    "78701",
				Country: "US",
			},
		},
		{
			name: "collapses internal whitespace",
			in: business.Address{
				Street1: "400   Elm    Avenue",
				City:    "San  Antonio",
				State:   "TX",
				Zip5:    "78205",
			},
			want: business.Address{
				Street1: "400 ELM AVE",
				City:    "SAN ANTONIO",
				State:   "TX",
				Zip5:    "78205",
			},
		},
		{
			name: "maps street suffixes including trailing periods",
			in: business.Address{
				Street1: "1 Congress Boulevard",
				Street2: "Suite 200",
				City:    "Houston",
				State:   "TX",
				Zip5:    "77002",
			},
			want: business.Address{
				Street1: "1 CONGRESS BLVD",
				Street2: "STE 200",
				City:    "HOUSTON",
				State:   "TX",
				Zip5:    "77002",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalized())
		})
	}
}

func TestAddressEqual(t *testing.T) {
	a := business.Address{Street1: "123 Main Street", City: "Austin", State: "TX", Zip5: "78701"}
	b := business.Address{Street1: "123 MAIN ST.", City: " austin", State: "tx", Zip5: "78701"}
	c := business.Address{Street1: "124 Main St", City: "Austin", State: "TX", Zip5: "78701"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestAddressHashStableUnderFormatting(t *testing.T) {
	a := business.Address{Street1: "123 Main Street", City: "Austin", State: "TX", Zip5: "78701"}
	b := business.Address{Street1: "  123 main st ", City: "AUSTIN", State: "tx", Zip5: "78701"}
	c := business.Address{Street1: "125 Main St", City: "Austin", State: "TX", Zip5: "78701"}

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestAddressValid(t *testing.T) {
	assert.True(t, business.Address{City: "Austin", State: "TX", Zip5: "78701"}.Valid())
	assert.False(t, business.Address{City: "Austin", State: "TX"}.Valid())
	assert.False(t, business.Address{State: "TX", Zip5: "78701"}.Valid())
	assert.False(t, business.Address{}.Valid())
}
