package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

const historyHeader = "nit,profit_cont_ops,total_equity,total_liab_cur_excl_disposal,total_liab_cur_ex_hfs," +
	"nonfin_liab_other_cur,fin_liab_other_cur,prov_cur_total\n"

func TestReadHistory(t *testing.T) {
	csvData := historyHeader +
		"900123,100,1000,5000,200,300,400,50\n" +
		"900124,300,3000,7000,,500,600,70\n"

	history, err := ReadHistory(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, 3000.0, history[1][scoring.TotalEquity])
	_, ok := history[1][scoring.TotalLiabCurExHFS]
	assert.False(t, ok)

	c, err := scoring.RebuildCatalog(scoring.DefaultCatalog(), history)
	require.NoError(t, err)
	assert.Equal(t, 200.0, c.Stats[scoring.ProfitContOps].Mean)
	assert.Equal(t, 200.0, c.Stats[scoring.TotalLiabCurExHFS].P50)
}

func TestReadHistory_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"missing column", "profit_cont_ops,total_equity\n1,2\n"},
		{"not a number", historyHeader + "1,2,abc,4,5,6,7,8\n"},
		{"ragged row", historyHeader + "1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadHistory(strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}
