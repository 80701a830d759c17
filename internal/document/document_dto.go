package document

type AttachDocumentRequest struct {
	DocType  string `json:"doc_type" binding:"required"`
	FileName string `json:"file_name" binding:"required"`
}

type DocumentResponse struct {
	ID         string `json:"id"`
	RequestID  string `json:"request_id"`
	Domain     string `json:"domain"`
	DocType    string `json:"doc_type"`
	FileName   string `json:"file_name"`
	UploadedBy string `json:"uploaded_by"`
	CreatedAt  string `json:"created_at"`
}

type CompletenessResponse struct {
	Complete bool     `json:"complete"`
	Missing  []string `json:"missing,omitempty"`
}

func mapToResponse(d RequestDocument) DocumentResponse {
	return DocumentResponse{
		ID:         d.ID.String(),
		RequestID:  d.RequestID.String(),
		Domain:     d.Domain,
		DocType:    d.DocType,
		FileName:   d.FileName,
		UploadedBy: d.UploadedBy.String(),
		CreatedAt:  d.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
