package request

// ContributionMetadata is the form part of an upload. Empty fields default to "NA".
type ContributionMetadata struct {
	Name        string `validate:"omitempty,max=100"`
	Address     string `validate:"omitempty,max=250"`
	Phone       string `validate:"omitempty,phone_or_na"`
	Description string `validate:"omitempty,max=1000"`
}

// UploadFile is the file part of a multipart upload, already read into memory.
type UploadFile struct {
	Filename string
	Data     []byte
}
