package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tingxin/ai-customer-assistant/internal/cli/form"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:  "知识库",
			input: "kind: KnowledgeBase\nspec:\n  name: 产品手册\n  description: 手册\n  owner: alice\n",
		},
		{name: "缺少kind", input: "spec:\n  name: x\n", wantErr: "'kind' field is required"},
		{name: "未知kind", input: "kind: DataDescriptor\n", wantErr: "invalid kind"},
		{name: "非法YAML", input: "kind: [", wantErr: "failed to parse yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse([]byte(tt.input))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Spec.Name != "产品手册" || res.Spec.Owner != "alice" {
				t.Errorf("unexpected spec: %+v", res.Spec)
			}
		})
	}
}

func TestToCreateRequest(t *testing.T) {
	res := &ResourceFile{Kind: KindKnowledgeBase, Spec: ResourceSpec{Name: " 产品手册 "}}
	req, err := res.ToCreateRequest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Name != "产品手册" || req.Owner != form.DefaultOwner {
		t.Errorf("unexpected request: %+v", req)
	}

	res.Spec.Name = "x"
	if _, err := res.ToCreateRequest(); !errors.Is(err, form.ErrInvalid) {
		t.Errorf("expected form error, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	content := "kind: KnowledgeBase\nspec:\n  name: 售后FAQ\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if res.Spec.Name != "售后FAQ" {
		t.Errorf("name = %q", res.Spec.Name)
	}

	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
