package pipeline

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceparts/internal"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []internal.Record{
		{Date: "01/02/2023", PartNumber: "12345ABCDE", Description: "Bolt, zinc"},
		{Date: internal.UnknownDate, PartNumber: "67890FGHIJ", Description: `Nut "M8"`},
	})
	require.NoError(t, err)

	assert.Equal(t, "Date,Part Number,Description\n"+
		"01/02/2023,12345ABCDE,\"Bolt, zinc\"\n"+
		"Unknown Date,67890FGHIJ,\"Nut \"\"M8\"\"\"\n", buf.String())
}

func TestCSVRoundTrip(t *testing.T) {
	in := []internal.Record{
		{Date: "31/12/2021", PartNumber: "11111AAAAA-X1", Description: "Kit (3 5)"},
		{Date: "01/01/2022", PartNumber: "22222BBBBB", Description: ""},
		{Date: internal.UnknownDate, PartNumber: "33333CCCCC", Description: "Line\nbreak"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Date,Part Number,Description\n", buf.String())

	out, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReadCSVRejectsForeignHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b,c\n1,2,3\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}
