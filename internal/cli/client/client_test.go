package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

// recordedRequest is what the fake backend saw
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// newTestBackend starts a fake backend answering every request with handler
func newTestBackend(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*APIClient, func() []recordedRequest) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			body, _ := io.ReadAll(r.Body)
			rec.Body = string(body)
		}
		mu.Lock()
		seen = append(seen, rec)
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewAPIClient(srv.URL, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewAPIClient() error: %v", err)
	}
	return c, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), seen...)
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNormalizeServerURL(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "localhost:8000", want: "http://localhost:8000"},
		{input: "http://localhost:8000/", want: "http://localhost:8000"},
		{input: "https://kb.example.com/api", want: "https://kb.example.com"},
		{input: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := normalizeServerURL(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateKnowledgeBase(t *testing.T) {
	c, seen := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"kb-1","name":"产品手册","description":"说明","owner_id":"admin-001","status":"active","document_count":0,"total_size":0,"created_at":"2024-05-01T10:00:00","updated_at":"2024-05-01T10:00:00"}`)
	})

	kb, err := c.CreateKnowledgeBase(context.Background(), &types.CreateKnowledgeBaseRequest{
		Name:        "产品手册",
		Description: "说明",
		Owner:       "admin",
	})
	if err != nil {
		t.Fatalf("CreateKnowledgeBase() error: %v", err)
	}
	if kb.ID != "kb-1" || kb.OwnerName() != "admin-001" || kb.Status != types.KnowledgeBaseActive {
		t.Errorf("unexpected knowledge base: %+v", kb)
	}

	got := seen()[0]
	if got.Method != http.MethodPost || got.Path != "/api/knowledge/bases" {
		t.Errorf("unexpected request %s %s", got.Method, got.Path)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(got.Body), &body); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if body["name"] != "产品手册" || body["owner"] != "admin" || body["description"] != "说明" {
		t.Errorf("unexpected request body: %v", body)
	}
}

func TestListKnowledgeBases(t *testing.T) {
	c, seen := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"kb-1","name":"a","status":"active","document_count":2},{"id":"kb-2","name":"b","status":"inactive","document_count":0}]`)
	})

	kbs, err := c.ListKnowledgeBases(context.Background(), types.ListKnowledgeBasesOptions{Status: "active"})
	if err != nil {
		t.Fatalf("ListKnowledgeBases() error: %v", err)
	}
	if len(kbs) != 2 || kbs[0].DocumentCount != 2 {
		t.Errorf("unexpected list: %+v", kbs)
	}
	if q := seen()[0].Query; q != "status=active" {
		t.Errorf("query = %q, want status=active", q)
	}

	if _, err := c.ListKnowledgeBases(context.Background(), types.ListKnowledgeBasesOptions{}); err != nil {
		t.Fatalf("ListKnowledgeBases() error: %v", err)
	}
	if q := seen()[1].Query; q != "" {
		t.Errorf("query = %q, want empty", q)
	}
}

func TestUpdateKnowledgeBaseSendsOnlySetFields(t *testing.T) {
	c, seen := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":"kb-1","name":"新名称","status":"active"}`)
	})

	name := "新名称"
	kb, err := c.UpdateKnowledgeBase(context.Background(), "kb-1", &types.UpdateKnowledgeBaseRequest{Name: &name})
	if err != nil {
		t.Fatalf("UpdateKnowledgeBase() error: %v", err)
	}
	if kb.Name != "新名称" {
		t.Errorf("name = %q", kb.Name)
	}

	got := seen()[0]
	if got.Method != http.MethodPut || got.Path != "/api/knowledge/bases/kb-1" {
		t.Errorf("unexpected request %s %s", got.Method, got.Path)
	}
	if strings.Contains(got.Body, "description") || strings.Contains(got.Body, "owner") {
		t.Errorf("body should only carry name: %s", got.Body)
	}
}

func TestDeleteKnowledgeBaseHardDeleteFlag(t *testing.T) {
	c, seen := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"知识库删除成功"}`)
	})

	if err := c.DeleteKnowledgeBase(context.Background(), "kb-1", false); err != nil {
		t.Fatalf("DeleteKnowledgeBase() error: %v", err)
	}
	if err := c.DeleteKnowledgeBase(context.Background(), "kb-1", true); err != nil {
		t.Fatalf("DeleteKnowledgeBase() error: %v", err)
	}

	if seen()[0].Method != http.MethodDelete || seen()[0].Query != "hard_delete=false" {
		t.Errorf("soft delete request = %+v", seen()[0])
	}
	if seen()[1].Query != "hard_delete=true" {
		t.Errorf("hard delete query = %q", seen()[1].Query)
	}
}

func TestDocumentEndpoints(t *testing.T) {
	c, seen := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/documents"):
			writeJSON(w, http.StatusOK, `[{"id":"doc-1","title":"手册","knowledge_base_id":"kb-1","file_size":2048,"doc_type":"pdf","status":"uploaded"}]`)
		case r.Method == http.MethodGet:
			writeJSON(w, http.StatusOK, `{"id":"doc-1","title":"手册","status":"completed","processed_at":"2024-05-01T10:00:00"}`)
		case r.Method == http.MethodDelete:
			writeJSON(w, http.StatusOK, `{"message":"文档删除成功"}`)
		default:
			writeJSON(w, http.StatusOK, `{"message":"文档处理已启动"}`)
		}
	})
	ctx := context.Background()

	docs, err := c.ListDocuments(ctx, "kb-1")
	if err != nil {
		t.Fatalf("ListDocuments() error: %v", err)
	}
	if len(docs) != 1 || !docs[0].CanProcess() {
		t.Errorf("unexpected documents: %+v", docs)
	}

	doc, err := c.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetDocument() error: %v", err)
	}
	if doc.ProcessedAt == nil || !doc.IsTerminal() {
		t.Errorf("unexpected document: %+v", doc)
	}

	ack, err := c.ProcessDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("ProcessDocument() error: %v", err)
	}
	if ack.Message != "文档处理已启动" {
		t.Errorf("ack = %q", ack.Message)
	}

	if _, err := c.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("DeleteDocument() error: %v", err)
	}

	wantPaths := []string{
		"GET /api/knowledge/bases/kb-1/documents",
		"GET /api/knowledge/documents/doc-1",
		"POST /api/knowledge/documents/doc-1/process",
		"DELETE /api/knowledge/documents/doc-1",
	}
	for i, want := range wantPaths {
		got := seen()[i].Method + " " + seen()[i].Path
		if got != want {
			t.Errorf("request %d = %q, want %q", i, got, want)
		}
	}
}

func TestUploadDocumentMultipart(t *testing.T) {
	var (
		gotFile        string
		gotFilename    string
		gotTitle       string
		gotDescription string
	)
	c, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, `{"detail":"not multipart"}`)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, `{"detail":"missing file"}`)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotFile = string(data)
		gotFilename = header.Filename
		gotTitle = r.FormValue("title")
		gotDescription = r.FormValue("description")
		writeJSON(w, http.StatusOK, `{"id":"doc-9","title":"notes","knowledge_base_id":"kb-1","status":"uploaded"}`)
	})

	doc, err := c.UploadDocument(context.Background(), "kb-1", &types.UploadRequest{
		Filename:    "notes.md",
		Reader:      strings.NewReader("# hello"),
		Title:       "notes",
		Description: "会议纪要",
	})
	if err != nil {
		t.Fatalf("UploadDocument() error: %v", err)
	}
	if doc.ID != "doc-9" {
		t.Errorf("doc id = %q", doc.ID)
	}
	if gotFile != "# hello" || gotFilename != "notes.md" {
		t.Errorf("file = %q (%s)", gotFile, gotFilename)
	}
	if gotTitle != "notes" || gotDescription != "会议纪要" {
		t.Errorf("title = %q, description = %q", gotTitle, gotDescription)
	}
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
		wantIs     error
	}{
		{name: "字符串detail", status: http.StatusNotFound, body: `{"detail":"知识库不存在"}`, wantDetail: "知识库不存在", wantIs: ErrNotFound},
		{name: "校验错误列表", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"},{"msg":"too long"}]}`, wantDetail: "field required; too long", wantIs: ErrInvalidInput},
		{name: "非JSON", status: http.StatusInternalServerError, body: `oops`, wantDetail: "", wantIs: ErrServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.GetKnowledgeBase(context.Background(), "missing")
			if err == nil {
				t.Fatal("expected error")
			}
			apiErr, ok := AsAPIError(err)
			if !ok {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if apiErr.StatusCode != tt.status || apiErr.Detail != tt.wantDetail {
				t.Errorf("got status %d detail %q", apiErr.StatusCode, apiErr.Detail)
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
			if IsTransport(err) {
				t.Error("application error reported as transport failure")
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	c, err := NewAPIClient(addr, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("NewAPIClient() error: %v", err)
	}

	_, err = c.ListKnowledgeBases(context.Background(), types.ListKnowledgeBasesOptions{})
	if !IsTransport(err) {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if _, ok := AsAPIError(err); ok {
		t.Error("transport failure should not be an APIError")
	}
}

func TestMalformedBody(t *testing.T) {
	c, _ := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `<html>gateway</html>`)
	})

	_, err := c.Chat(context.Background(), &types.ChatRequest{Message: "你好"})
	if !IsDecode(err) {
		t.Fatalf("expected decode failure, got %v", err)
	}
	if IsTransport(err) {
		t.Error("a readable response is not a transport failure")
	}
}

func TestChat(t *testing.T) {
	c, seen := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"type":"card","content":{"title":"技术支持","desc":"7x24小时技术支持服务"},"timestamp":"2024-05-01T10:00:00.123456"}`)
	})

	reply, err := c.Chat(context.Background(), &types.ChatRequest{Message: "显示卡片消息", SessionID: "s-1"})
	if err != nil {
		t.Fatalf("Chat() error: %v", err)
	}
	if reply.Type != types.ChatCard {
		t.Errorf("type = %q", reply.Type)
	}
	content, err := reply.Decode()
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if card, ok := content.(types.CardContent); !ok || card.Title != "技术支持" {
		t.Errorf("content = %#v", content)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(seen()[0].Body), &body); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if body["message"] != "显示卡片消息" || body["session_id"] != "s-1" {
		t.Errorf("unexpected body: %v", body)
	}

	if _, err := c.Chat(context.Background(), &types.ChatRequest{}); err == nil {
		t.Error("expected error for empty message")
	}
	if len(seen()) != 1 {
		t.Errorf("empty message should not reach the backend, saw %d requests", len(seen()))
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(&APIError{StatusCode: 400, Detail: "不支持的文件类型"}, "文档上传失败"); got != "不支持的文件类型" {
		t.Errorf("got %q", got)
	}
	if got := UserMessage(&APIError{StatusCode: 500}, "文档上传失败"); got != "文档上传失败" {
		t.Errorf("got %q", got)
	}
	if got := UserMessage(ErrTransport, "文档上传失败"); got != "文档上传失败" {
		t.Errorf("got %q", got)
	}
}
