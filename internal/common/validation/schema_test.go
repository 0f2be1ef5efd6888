package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/DWS-OmarMoreno/alfix-services/internal/common/errors"
	"github.com/DWS-OmarMoreno/alfix-services/internal/scoring"
)

const validBody = `{
  "profit_cont_ops": 1305954.0,
  "total_equity": 4008240.0,
  "total_liab_cur_excl_disposal": 119646380.0,
  "total_liab_cur_ex_hfs": 2604677.0,
  "nonfin_liab_other_cur": 3787620.0,
  "fin_liab_other_cur": 10368470.0,
  "prov_cur_total": 2564660.0,
  "company": "Ferretería El Tornillo"
}`

func TestParseSample_Valid(t *testing.T) {
	sample, err := ParseSample([]byte(validBody))
	require.NoError(t, err)

	assert.Len(t, sample, 7)
	assert.Equal(t, 4008240.0, sample[scoring.TotalEquity])
	assert.Empty(t, sample.Missing())
}

func TestParseSample_InvalidPayload(t *testing.T) {
	for _, body := range []string{"", "   ", "{}", "[1,2]", "null", `"text"`, "{broken"} {
		_, err := ParseSample([]byte(body))
		stdErr := apperrors.AsStandardError(err)
		require.NotNil(t, stdErr, "body %q", body)
		assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code, "body %q", body)
		assert.Equal(t, apperrors.MsgInvalidPayload, stdErr.Message, "body %q", body)
	}
}

func TestParseSample_MissingInCanonicalOrder(t *testing.T) {
	_, err := ParseSample([]byte(`{"prov_cur_total": 1, "total_equity": 2, "other": 3}`))

	stdErr := apperrors.AsStandardError(err)
	require.NotNil(t, stdErr)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Equal(t, []string{
		"profit_cont_ops",
		"total_liab_cur_excl_disposal",
		"total_liab_cur_ex_hfs",
		"nonfin_liab_other_cur",
		"fin_liab_other_cur",
	}, stdErr.MissingVariables())
}

func TestParseSample_NonNumeric(t *testing.T) {
	for _, value := range []string{`"4008240"`, `null`, `true`, `{"v": 1}`} {
		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(validBody), &doc))
		var v interface{}
		require.NoError(t, json.Unmarshal([]byte(value), &v))
		doc["total_equity"] = v

		_, err := SampleFromMap(doc)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInternalComputationError), "value %s", value)
	}
}

func TestValidate_ReportsFields(t *testing.T) {
	res, err := Validate(map[string]interface{}{"total_equity": "x"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.NotEmpty(t, res.Errors)
	assert.Contains(t, res.String(), "total_equity")
}

func TestSampleFromMap_IntegerValues(t *testing.T) {
	doc := map[string]interface{}{}
	for i, v := range scoring.Variables {
		doc[string(v)] = i * 10
	}
	sample, err := SampleFromMap(doc)
	require.NoError(t, err)
	assert.Equal(t, 60.0, sample[scoring.ProvCurTotal])
}
