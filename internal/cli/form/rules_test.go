package form

import (
	"errors"
	"strings"
	"testing"
)

func TestKnowledgeBaseRules(t *testing.T) {
	tests := []struct {
		name      string
		values    map[string]string
		wantField string
	}{
		{name: "合法", values: map[string]string{"name": "产品手册", "owner": "admin"}},
		{name: "缺少名称", values: map[string]string{"owner": "admin"}, wantField: "name"},
		{name: "名称太短", values: map[string]string{"name": "a", "owner": "admin"}, wantField: "name"},
		{name: "名称按字符计数", values: map[string]string{"name": "手册", "owner": "admin"}},
		{name: "名称太长", values: map[string]string{"name": strings.Repeat("知", 51), "owner": "admin"}, wantField: "name"},
		{name: "描述太长", values: map[string]string{"name": "ok", "owner": "admin", "description": strings.Repeat("x", 501)}, wantField: "description"},
		{name: "缺少Owner", values: map[string]string{"name": "ok", "owner": "  "}, wantField: "owner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := KnowledgeBaseRules.Validate(tt.values)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected FieldError, got %v", err)
			}
			if fe.Field != tt.wantField {
				t.Errorf("field = %q, want %q", fe.Field, tt.wantField)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Error("FieldError should match ErrInvalid")
			}
		})
	}
}

func TestRuleValidator(t *testing.T) {
	v := KnowledgeBaseRules.Field("name").Validator()
	if err := v("知识库"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v(""); err == nil || err.Error() != "请输入知识库名称" {
		t.Errorf("got %v", err)
	}
	if err := v(42); err == nil {
		t.Error("expected error for non-string answer")
	}
}

func TestDocumentRules(t *testing.T) {
	if err := DocumentRules.Validate(map[string]string{"title": "手册"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := DocumentRules.Validate(map[string]string{"description": "x"}); err == nil {
		t.Error("expected missing title error")
	}
}
