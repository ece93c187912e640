package types

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

func TestTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "RFC3339", input: `"2024-05-01T10:20:30Z"`, want: time.Date(2024, 5, 1, 10, 20, 30, 0, time.UTC)},
		{name: "无时区", input: `"2024-05-01T10:20:30"`, want: time.Date(2024, 5, 1, 10, 20, 30, 0, time.Local)},
		{name: "微秒", input: `"2024-05-01T10:20:30.123456"`, want: time.Date(2024, 5, 1, 10, 20, 30, 123456000, time.Local)},
		{name: "null", input: `null`},
		{name: "非法", input: `"yesterday"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Time
			err := got.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got.Time, tt.want)
			}
		})
	}
}

func TestKnowledgeBaseOwnerName(t *testing.T) {
	if got := (KnowledgeBase{Owner: "alice", OwnerID: "admin-001"}).OwnerName(); got != "alice" {
		t.Errorf("OwnerName() = %q, want alice", got)
	}
	if got := (KnowledgeBase{OwnerID: "admin-001"}).OwnerName(); got != "admin-001" {
		t.Errorf("OwnerName() = %q, want admin-001", got)
	}
}

func TestDocumentStatusPredicates(t *testing.T) {
	tests := []struct {
		status     DocumentStatus
		process    bool
		processing bool
		terminal   bool
	}{
		{DocumentUploaded, true, false, false},
		{DocumentParsing, false, true, false},
		{DocumentVectorizing, false, true, false},
		{DocumentIndexing, false, true, false},
		{DocumentCompleted, false, false, true},
		{DocumentFailed, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			doc := Document{Status: tt.status}
			if doc.CanProcess() != tt.process {
				t.Errorf("CanProcess() = %v, want %v", doc.CanProcess(), tt.process)
			}
			if doc.IsProcessing() != tt.processing {
				t.Errorf("IsProcessing() = %v, want %v", doc.IsProcessing(), tt.processing)
			}
			if doc.IsTerminal() != tt.terminal {
				t.Errorf("IsTerminal() = %v, want %v", doc.IsTerminal(), tt.terminal)
			}
		})
	}
}

func TestChatReplyDecode(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, c ChatContent)
	}{
		{
			name: "text",
			body: `{"type":"text","content":{"text":"您好"}}`,
			check: func(t *testing.T, c ChatContent) {
				if tc, ok := c.(TextContent); !ok || tc.Text != "您好" {
					t.Errorf("got %#v", c)
				}
			},
		},
		{
			name: "image",
			body: `{"type":"image","content":{"picUrl":"http://x/a.png"}}`,
			check: func(t *testing.T, c ChatContent) {
				if ic, ok := c.(ImageContent); !ok || ic.PicURL != "http://x/a.png" {
					t.Errorf("got %#v", c)
				}
			},
		},
		{
			name: "card",
			body: `{"type":"card","content":{"title":"产品介绍","desc":"d","actions":[{"type":"url","text":"查看详情","url":"#"}]}}`,
			check: func(t *testing.T, c ChatContent) {
				cc, ok := c.(CardContent)
				if !ok || cc.Title != "产品介绍" || len(cc.Actions) != 1 || cc.Img != "" {
					t.Errorf("got %#v", c)
				}
			},
		},
		{
			name: "list",
			body: `{"type":"list","content":{"header":{"title":"系统功能"},"items":[{"icon":"🤖","title":"智能问答","desc":"基于AI的自动问答"}]}}`,
			check: func(t *testing.T, c ChatContent) {
				lc, ok := c.(ListContent)
				if !ok || lc.Header.Title != "系统功能" || len(lc.Items) != 1 {
					t.Errorf("got %#v", c)
				}
			},
		},
		{
			name: "未知类型按文本处理",
			body: `{"type":"video","content":"plain"}`,
			check: func(t *testing.T, c ChatContent) {
				if tc, ok := c.(TextContent); !ok || tc.Text != "plain" {
					t.Errorf("got %#v", c)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reply ChatReply
			if err := sonic.Unmarshal([]byte(tt.body), &reply); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			content, err := reply.Decode()
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			tt.check(t, content)
		})
	}
}
