package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceparts/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveDocumentAndListRecords(t *testing.T) {
	db := openTestDB(t)

	first, err := db.SaveDocument("a.pdf", "hash-a", internal.ExtractedDocument{
		Date: "01/02/2023",
		Items: []internal.LineItem{
			{PartNumber: "12345ABCDE", Description: "Bolt"},
			{PartNumber: "67890FGHIJ", Description: "Nut"},
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, internal.DocumentProcessed, first.Status)
	assert.Equal(t, 2, first.RecordCount)

	_, err = db.SaveDocument("b.pdf", "hash-b", internal.ExtractedDocument{
		Date:  internal.UnknownDate,
		Items: []internal.LineItem{{PartNumber: "11111AAAAA", Description: "Seal"}},
	}, nil)
	require.NoError(t, err)

	records, err := db.ListRecords()
	require.NoError(t, err)
	assert.Equal(t, []internal.Record{
		{Date: "01/02/2023", PartNumber: "12345ABCDE", Description: "Bolt"},
		{Date: "01/02/2023", PartNumber: "67890FGHIJ", Description: "Nut"},
		{Date: internal.UnknownDate, PartNumber: "11111AAAAA", Description: "Seal"},
	}, records)
}

func TestSaveDocumentReplacesSameHash(t *testing.T) {
	db := openTestDB(t)

	_, err := db.SaveDocument("a.pdf", "hash-a", internal.ExtractedDocument{}, errors.New("boom"))
	require.NoError(t, err)

	row, err := db.GetDocumentByHash("hash-a")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, internal.DocumentFailed, row.Status)
	assert.Equal(t, "boom", row.Error)

	again, err := db.SaveDocument("renamed.pdf", "hash-a", internal.ExtractedDocument{
		Date:  "05/05/2020",
		Items: []internal.LineItem{{PartNumber: "12345ABCDE", Description: "Bolt"}},
	}, nil)
	require.NoError(t, err)
	assert.Greater(t, again.ID, row.ID)
	assert.Equal(t, "renamed.pdf", again.Path)
	assert.Equal(t, internal.DocumentProcessed, again.Status)
	assert.Empty(t, again.Error)

	docs, err := db.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 1)

	records, err := db.ListRecords()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSaveDocumentAgainMovesToEnd(t *testing.T) {
	db := openTestDB(t)

	_, err := db.SaveDocument("a.pdf", "hash-a", internal.ExtractedDocument{}, errors.New("locked"))
	require.NoError(t, err)
	_, err = db.SaveDocument("b.pdf", "hash-b", internal.ExtractedDocument{
		Date:  "01/01/2021",
		Items: []internal.LineItem{{PartNumber: "11111AAAAA", Description: "Seal"}},
	}, nil)
	require.NoError(t, err)
	_, err = db.SaveDocument("a.pdf", "hash-a", internal.ExtractedDocument{
		Date:  "02/02/2022",
		Items: []internal.LineItem{{PartNumber: "22222BBBBB", Description: "Hose"}},
	}, nil)
	require.NoError(t, err)

	records, err := db.ListRecords()
	require.NoError(t, err)
	assert.Equal(t, []internal.Record{
		{Date: "01/01/2021", PartNumber: "11111AAAAA", Description: "Seal"},
		{Date: "02/02/2022", PartNumber: "22222BBBBB", Description: "Hose"},
	}, records)

	docs, err := db.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "hash-b", docs[0].Hash)
	assert.Equal(t, "hash-a", docs[1].Hash)
}

func TestGetDocumentByHashMissing(t *testing.T) {
	db := openTestDB(t)
	row, err := db.GetDocumentByHash("nope")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestRunsAndMetadata(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.InsertRun("trace-1", map[string]float64{"totalMs": 12}, map[string]int{"records": 3}))
	n, err := db.CountRuns()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	value, err := db.GetMetadata("lastExport")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, db.SetMetadata("lastExport", "out/a.csv"))
	require.NoError(t, db.SetMetadata("lastExport", "out/b.csv"))
	value, err = db.GetMetadata("lastExport")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "out/b.csv", *value)
}
