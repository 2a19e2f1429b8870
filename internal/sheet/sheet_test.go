package sheet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColumnLetter(t *testing.T) {
	tests := []struct {
		col  int
		want string
	}{
		{1, "A"},
		{4, "D"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, columnLetter(tt.col))
	}
}

func TestQuoteTab(t *testing.T) {
	require.Equal(t, "'Trail - Google'", quoteTab("Trail - Google"))
	require.Equal(t, "'Account 1'", quoteTab("Account 1"))
}
