package internal

// UnknownDate is the document date used when no DD/MM/YYYY token is found.
const UnknownDate = "Unknown Date"

type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatText DocumentFormat = "txt"
	FormatXLSX DocumentFormat = "xlsx"
	FormatEML  DocumentFormat = "eml"
	FormatHTML DocumentFormat = "html"
)

// LineItem is one part-number/description pair matched in a document.
type LineItem struct {
	PartNumber  string
	Description string
}

// ExtractedDocument is the result of scanning one document's text.
type ExtractedDocument struct {
	Date  string
	Items []LineItem
}

// Record is one extracted (date, part number, description) triple.
type Record struct {
	Date        string
	PartNumber  string
	Description string
}

type DocumentStatus string

const (
	DocumentProcessed DocumentStatus = "processed"
	DocumentFailed    DocumentStatus = "failed"
)

type DocumentRow struct {
	ID          int
	Path        string
	Hash        string
	DocDate     string
	Status      DocumentStatus
	Error       string
	RecordCount int
	CreatedAt   string
}

type FetchedMailMessage struct {
	Provider   string
	MessageID  string
	Subject    string
	From       string
	ReceivedAt string
	Raw        []byte
}
