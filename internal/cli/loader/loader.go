package loader

import (
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/tingxin/ai-customer-assistant/internal/cli/form"
	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

// KindKnowledgeBase is the only resource kind kbctl can create from a file
const KindKnowledgeBase = "KnowledgeBase"

// ResourceFile represents a resource definition loaded from a YAML file
type ResourceFile struct {
	Kind string       `json:"kind"`
	Spec ResourceSpec `json:"spec"`
}

// ResourceSpec holds the knowledge base fields
type ResourceSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
}

// LoadFromFile loads a resource definition from a YAML (or JSON) file
func LoadFromFile(path string) (*ResourceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks the kind of a resource definition
func Parse(data []byte) (*ResourceFile, error) {
	var resource ResourceFile
	if err := yaml.Unmarshal(data, &resource); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	switch resource.Kind {
	case "":
		return nil, fmt.Errorf("'kind' field is required")
	case KindKnowledgeBase:
	default:
		return nil, fmt.Errorf("invalid kind '%s', must be '%s'", resource.Kind, KindKnowledgeBase)
	}

	return &resource, nil
}

// ToCreateRequest validates the spec with the form rules and converts it.
// A missing owner falls back to the form default.
func (r *ResourceFile) ToCreateRequest() (*types.CreateKnowledgeBaseRequest, error) {
	owner := strings.TrimSpace(r.Spec.Owner)
	if owner == "" {
		owner = form.DefaultOwner
	}

	values := map[string]string{
		"name":        r.Spec.Name,
		"description": r.Spec.Description,
		"owner":       owner,
	}
	if err := form.KnowledgeBaseRules.Validate(values); err != nil {
		return nil, fmt.Errorf("invalid spec: %w", err)
	}

	return &types.CreateKnowledgeBaseRequest{
		Name:        strings.TrimSpace(r.Spec.Name),
		Description: strings.TrimSpace(r.Spec.Description),
		Owner:       owner,
	}, nil
}
