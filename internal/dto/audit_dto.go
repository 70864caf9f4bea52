package dto

type AuditFilter struct {
	UserID string `form:"user_id" validate:"omitempty,uuid"`
	Start  string `form:"start"   validate:"omitempty,datetime=2006-01-02"`
	End    string `form:"end"     validate:"omitempty,datetime=2006-01-02"`
}

type AuditEntryResponse struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id,omitempty"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	Details    string `json:"details,omitempty"`
	CreatedAt  string `json:"created_at"`
}
