package controllers

import "github.com/google/uuid"

// BulkDeleteBody is the request body of the bulk-delete endpoints.
type BulkDeleteBody struct {
	IDs []string `json:"ids"`
}

// DeletedResource reports one deleted id.
type DeletedResource struct {
	ID string `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"`
}

// UploadResult reports the outcome for one record of a bulk upload.
type UploadResult struct {
	ID     string `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	Status string `json:"status" example:"inserted"`
}

// parseIDs converts the ids of a bulk request, dropping values that are not
// valid UUIDs. A malformed id gets the same treatment as an unknown one: it
// is simply not deleted.
func parseIDs(ids []string) []uuid.UUID {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			parsed = append(parsed, id)
		}
	}

	return parsed
}
