// file: internals/features/verification/settings/dto/settings_dto.go
package dto

// UpdateSettingsRequest is a partial batch write: only the keys present are
// touched. Values travel as strings; parsing happens at snapshot load.
type UpdateSettingsRequest struct {
	Values map[string]string `json:"values" validate:"required,min=1"`
}
