package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/couchcryptid/air-quality-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `who_region,iso3,country_name,year,pm25_concentration,pm10_concentration,no2_concentration,population
European Region,FIN,Finland,2019,4.2,10,,5500000
South-East Asia Region,ind,India,2019.0,50,100,25,1400000000
European Region,POL,Poland,2020,,,,38000000
`

func TestDecodeCSV(t *testing.T) {
	ds, stats, err := DecodeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, ds, 3)

	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, "Finland", ds[0].CountryName)
	assert.Equal(t, "European Region", ds[0].WHORegion)
	assert.Equal(t, 2019, ds[0].Year)
	require.NotNil(t, ds[0].PM25)
	assert.InDelta(t, 4.2, *ds[0].PM25, 1e-9)
	assert.Nil(t, ds[0].NO2)

	assert.Equal(t, "IND", ds[1].ISO3, "iso3 is upper-cased")
	assert.Equal(t, 2019, ds[1].Year, "integral float years are accepted")

	assert.Nil(t, ds[2].PM25)
	assert.Nil(t, ds[2].PM10)
	assert.Nil(t, ds[2].NO2)

	assert.Equal(t, 1, stats.Missing["pm25_concentration"])
	assert.Equal(t, 2, stats.Missing["no2_concentration"])
}

func TestDecodeCSV_MissingColumns(t *testing.T) {
	input := "who_region,iso3,country_name,year,pm25_concentration,pm10_concentration\n" +
		"European Region,FIN,Finland,2019,4,10\n"

	_, _, err := DecodeCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingColumns)

	var mce *domain.MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"no2_concentration"}, mce.Columns)
}

func TestDecodeCSV_EmptyInput(t *testing.T) {
	_, _, err := DecodeCSV(strings.NewReader(""))
	require.Error(t, err)

	var mce *domain.MissingColumnsError
	require.True(t, errors.As(err, &mce))
	assert.Len(t, mce.Columns, len(domain.RequiredColumns))
}

func TestDecodeCSV_HeaderOnly(t *testing.T) {
	input := "who_region,iso3,country_name,year,pm25_concentration,pm10_concentration,no2_concentration\n"

	ds, stats, err := DecodeCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Empty(t, ds)
	assert.Equal(t, 0, stats.Rows)
}

func TestDecodeCSV_ByteOrderMarkAndHeaderCase(t *testing.T) {
	input := "\xEF\xBB\xBFWHO_Region, ISO3 ,Country_Name,Year,PM25_Concentration,PM10_Concentration,NO2_Concentration\n" +
		"Region of the Americas,CHL,Chile,2020,22,45,12\n"

	ds, _, err := DecodeCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ds, 1)
	assert.Equal(t, "Region of the Americas", ds[0].WHORegion)
	assert.Equal(t, "CHL", ds[0].ISO3)
}

func TestDecodeCSV_InvalidConcentrationsBecomeNull(t *testing.T) {
	input := "who_region,iso3,country_name,year,pm25_concentration,pm10_concentration,no2_concentration\n" +
		"European Region,FIN,Finland,2019,n/a,-3,NaN\n" +
		"European Region,SWE,Sweden,2019,Inf,12,0\n"

	ds, stats, err := DecodeCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ds, 2)

	assert.Nil(t, ds[0].PM25)
	assert.Nil(t, ds[0].PM10)
	assert.Nil(t, ds[0].NO2)
	assert.Nil(t, ds[1].PM25)
	require.NotNil(t, ds[1].NO2)
	assert.Zero(t, *ds[1].NO2, "zero is a valid concentration")

	assert.Equal(t, 2, stats.Invalid["pm25_concentration"])
	assert.Equal(t, 1, stats.Invalid["pm10_concentration"])
	assert.Equal(t, 1, stats.Invalid["no2_concentration"])
}

func TestDecodeCSV_ShortAndLongRows(t *testing.T) {
	input := "who_region,iso3,country_name,year,pm25_concentration,pm10_concentration,no2_concentration\n" +
		"European Region,FIN,Finland,2019,4,10\n" +
		"European Region,SWE,Sweden,2019,5,11,9,extra\n"

	ds, stats, err := DecodeCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, ds, 2)

	require.NotNil(t, ds[0].PM10)
	assert.InDelta(t, 10.0, *ds[0].PM10, 1e-9)
	assert.Nil(t, ds[0].NO2, "missing trailing cells decode as empty")
	assert.Equal(t, 1, stats.Missing["no2_concentration"])

	require.NotNil(t, ds[1].NO2)
	assert.InDelta(t, 9.0, *ds[1].NO2, 1e-9)
}

func TestDecodeCSV_InvalidYear(t *testing.T) {
	input := "who_region,iso3,country_name,year,pm25_concentration,pm10_concentration,no2_concentration\n" +
		"European Region,FIN,Finland,2019,4,10,8\n" +
		"European Region,SWE,Sweden,twenty,5,11,9\n"

	_, _, err := DecodeCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
	assert.Contains(t, err.Error(), `invalid year "twenty"`)
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"2019", 2019, false},
		{" 2020 ", 2020, false},
		{"2021.0", 2021, false},
		{"2021.5", 0, true},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseYear(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
