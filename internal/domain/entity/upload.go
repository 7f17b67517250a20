package entity

// ImagePayload is one encoded image inside an upload batch. Content is the
// base64-encoded file body as received from the client; Order is the target
// display index.
type ImagePayload struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Order    int    `json:"order"`
}

// UploadBatch is the message published to the upload queue right after an
// empty listing is created. Attempt counts redeliveries of the same logical
// batch, starting at 1.
type UploadBatch struct {
	ListingID string         `json:"listing_id"`
	Attempt   int            `json:"attempt"`
	Images    []ImagePayload `json:"images"`
}

// TaskResult is the terminal report of one upload task execution.
type TaskResult struct {
	Success  bool   `json:"success"`
	Uploaded int    `json:"uploaded"`
	Failed   int    `json:"failed"`
	Error    string `json:"error,omitempty"`
}
