package types

// KnowledgeBaseStatus is the lifecycle state of a knowledge base
type KnowledgeBaseStatus string

const (
	KnowledgeBaseActive   KnowledgeBaseStatus = "active"
	KnowledgeBaseInactive KnowledgeBaseStatus = "inactive"
	KnowledgeBaseDeleted  KnowledgeBaseStatus = "deleted"
	// KnowledgeBaseArchived is reported by some backend versions instead of deleted
	KnowledgeBaseArchived KnowledgeBaseStatus = "archived"
)

// KnowledgeBase represents a knowledge base as returned by the backend
type KnowledgeBase struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Owner         string              `json:"owner,omitempty"`
	OwnerID       string              `json:"owner_id,omitempty"`
	Status        KnowledgeBaseStatus `json:"status"`
	DocumentCount int                 `json:"document_count"`
	TotalSize     int64               `json:"total_size,omitempty"`
	CreatedAt     Time                `json:"created_at"`
	UpdatedAt     Time                `json:"updated_at"`
}

// OwnerName returns the owner, falling back to owner_id
func (kb KnowledgeBase) OwnerName() string {
	if kb.Owner != "" {
		return kb.Owner
	}
	return kb.OwnerID
}

// CreateKnowledgeBaseRequest represents a request to create a knowledge base
type CreateKnowledgeBaseRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner"`
}

// UpdateKnowledgeBaseRequest represents a partial update; nil fields are left unchanged
type UpdateKnowledgeBaseRequest struct {
	Name        *string              `json:"name,omitempty"`
	Description *string              `json:"description,omitempty"`
	Owner       *string              `json:"owner,omitempty"`
	Status      *KnowledgeBaseStatus `json:"status,omitempty"`
}

// IsEmpty reports whether the update carries no fields
func (r UpdateKnowledgeBaseRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Owner == nil && r.Status == nil
}

// ListKnowledgeBasesOptions filters the knowledge base list
type ListKnowledgeBasesOptions struct {
	Status string
}
