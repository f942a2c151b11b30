package loader

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const argoCSV = `platform_number, juld, latitude, longitude, pres, temp, psal
2902746,2023-01-15 06:30:00,12.5,65.1,5.0,28.1,36.2
2902746,2023-01-15 06:30:00,12.5,65.1,100.0,,36.4
"2902755",2023-02-01,-0.4,80.2,10.0,29.0,34.9
bad,"row
`

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(argoCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"platform_number", "juld", "latitude", "longitude", "pres", "temp", "psal"}, table.Headers)
	require.GreaterOrEqual(t, len(table.Rows), 3)
	assert.Equal(t, "2902755", table.Rows[2][0])
	assert.Equal(t, "", table.Rows[1][5])
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Headers))
	}
}

func TestReadCSV_Semicolon(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("depth;temp\n10;20.5\n20\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"depth", "temp"}, table.Headers)
	assert.Equal(t, [][]string{{"10", "20.5"}, {"20", ""}}, table.Rows)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestInferColumnTypes(t *testing.T) {
	table := &Table{
		Headers: []string{"platform_number", "juld", "temp", "region", "empty"},
		Rows: [][]string{
			{"2902746", "2023-01-15 06:30:00", "28.1", "Arabian Sea", ""},
			{"2902755", "2023-02-01", "", "Bay of Bengal", ""},
		},
	}

	assert.Equal(t, []ColumnType{TypeText, TypeTimestamp, TypeFloat, TypeText, TypeText}, InferColumnTypes(table))
}

func TestConvert(t *testing.T) {
	v, err := Convert("28.1", TypeFloat)
	require.NoError(t, err)
	assert.Equal(t, 28.1, v)

	v, err = Convert("2023-02-01", TypeTimestamp)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), v)

	v, err = Convert("", TypeFloat)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Convert("Arabian Sea", TypeText)
	require.NoError(t, err)
	assert.Equal(t, "Arabian Sea", v)

	_, err = Convert("n/a", TypeFloat)
	assert.Error(t, err)
}

func TestConvert_NonFiniteCellsAreNull(t *testing.T) {
	for _, cell := range []string{"NaN", "nan", "inf", "-Inf", "+Infinity"} {
		v, err := Convert(cell, TypeFloat)
		require.NoError(t, err, cell)
		assert.Nil(t, v, cell)
	}
}

func TestInferColumnTypes_IgnoresNaNFill(t *testing.T) {
	table := &Table{
		Headers: []string{"temp", "psal"},
		Rows: [][]string{
			{"NaN", "36.2"},
			{"28.1", "nan"},
		},
	}

	types := InferColumnTypes(table)
	assert.Equal(t, []ColumnType{TypeFloat, TypeFloat}, types)

	v, err := Convert(table.Rows[0][0], types[0])
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCreateTableSQL(t *testing.T) {
	sql := createTableSQL("argo_data", []string{"platform_number", "temp"}, []ColumnType{TypeText, TypeFloat})
	assert.Equal(t, `CREATE TABLE "argo_data" ("platform_number" TEXT, "temp" DOUBLE PRECISION)`, sql)
}

func TestConvertRows(t *testing.T) {
	rows, err := convertRows([][]string{{"1.5", "x"}, {"", "y"}}, []ColumnType{TypeFloat, TypeText})
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{1.5, "x"}, {nil, "y"}}, rows)

	_, err = convertRows([][]string{{"abc"}}, []ColumnType{TypeFloat})
	assert.ErrorContains(t, err, "column 1")
}
