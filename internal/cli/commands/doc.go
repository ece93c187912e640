package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tingxin/ai-customer-assistant/internal/cli/consistency"
	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
	"github.com/tingxin/ai-customer-assistant/internal/cli/ui"
	"github.com/tingxin/ai-customer-assistant/internal/cli/upload"
)

var (
	docListOutput string
	docListFile   string

	docUploadTitle       string
	docUploadDescription string

	docDeleteForce bool

	docWaitTimeout  time.Duration
	docWaitInterval time.Duration
)

// docCmd groups document subcommands
var docCmd = &cobra.Command{
	Use:     "doc",
	Aliases: []string{"document", "documents"},
	Short:   "manage documents of a knowledge base",
	Long: `Manage the documents of a knowledge base.

Every document mutation re-reads the owning knowledge base's document list
and prints it.`,
}

var docListCmd = &cobra.Command{
	Use:   "list <kb-id>",
	Short: "list the documents of a knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocList,
}

var docUploadCmd = &cobra.Command{
	Use:   "upload <kb-id> <path>",
	Short: "upload a document",
	Long: `Upload a document to a knowledge base.

Accepted formats: PDF, Word (.doc/.docx), TXT and Markdown, smaller than 10MB.
The file is checked locally first; a rejected file is never sent.
The title defaults to the file name without its extension.`,
	Example: `  $ kbctl doc upload <kb-id> ./manual.pdf
  $ kbctl doc upload <kb-id> ./faq.md --title 常见问题 --description "售后FAQ"`,
	Args: cobra.ExactArgs(2),
	RunE: runDocUpload,
}

var docDeleteCmd = &cobra.Command{
	Use:   "delete <doc-id>",
	Short: "delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocDelete,
}

var docProcessCmd = &cobra.Command{
	Use:   "process <doc-id>",
	Short: "start processing an uploaded document",
	Long: `Ask the backend to parse, vectorize and index a document.

Only documents in the uploaded state can be processed. Use 'kbctl doc wait'
to follow the document until it completes or fails.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocProcess,
}

var docWaitCmd = &cobra.Command{
	Use:   "wait <doc-id>",
	Short: "wait until a document is completed or failed",
	Example: `  $ kbctl doc wait <doc-id>
  $ kbctl doc wait <doc-id> --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: runDocWait,
}

func init() {
	addOutputFlags(docListCmd, &docListOutput, &docListFile)

	docUploadCmd.Flags().StringVar(&docUploadTitle, "title", "", "Document title (default: file name without extension)")
	docUploadCmd.Flags().StringVar(&docUploadDescription, "description", "", "Document description (at most 500 characters)")

	docDeleteCmd.Flags().BoolVarP(&docDeleteForce, "force", "f", false, "Skip confirmation prompt")

	docWaitCmd.Flags().DurationVar(&docWaitTimeout, "timeout", 2*time.Minute, "Give up after this long")
	docWaitCmd.Flags().DurationVar(&docWaitInterval, "interval", 2*time.Second, "Polling interval")

	for _, c := range []*cobra.Command{docListCmd, docUploadCmd, docDeleteCmd, docProcessCmd, docWaitCmd} {
		c.SilenceUsage = true
		docCmd.AddCommand(c)
	}
}

func runDocList(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	docs, err := rt.api.ListDocuments(rt.ctx(cmd), args[0])
	if err != nil {
		return rt.fail("获取文档列表", err)
	}

	return emit(cmd, docListOutput, docListFile, listOutput{
		value: docs,
		table: func() string {
			return ui.RenderDocumentTable(docs) + "\n" + ui.RenderSummary(len(docs), "documents")
		},
		xlsx:        func(w io.Writer) error { return ui.WriteDocumentsXLSX(w, docs) },
		defaultFile: "documents.xlsx",
	})
}

func runDocUpload(cmd *cobra.Command, args []string) error {
	kbID, path := args[0], args[1]

	// local checks run before any config or network work
	sel, err := upload.Prepare(path)
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("upload rejected")
	}
	defer sel.Close()

	if cmd.Flags().Changed("title") {
		sel.Title = docUploadTitle
	}
	sel.Description = docUploadDescription

	req, err := sel.Request()
	if err != nil {
		ui.PrintError("%v", err)
		return fmt.Errorf("invalid input")
	}

	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := rt.ctx(cmd)
	ui.PrintInfo("Uploading %s (%s)...", sel.Name, ui.FormatSize(sel.Size))
	doc, err := rt.api.UploadDocument(ctx, kbID, req)
	if err != nil {
		return rt.fail("上传文档", err)
	}
	ui.PrintSuccess("文档 '%s' 上传成功", doc.Title)
	if doc.CanProcess() {
		ui.PrintInfo("Run 'kbctl doc process %s' to index it", doc.ID)
	}

	docs, err := consistency.WaitFor(ctx, listDocuments(rt, kbID), func(docs []types.Document) bool {
		return findDocument(docs, doc.ID) != nil
	}, rt.waitOptions())
	return renderDocumentsAfterWait(rt, docs, err)
}

func runDocDelete(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := rt.ctx(cmd)
	doc, err := rt.api.GetDocument(ctx, args[0])
	if err != nil {
		return rt.fail("获取文档", err)
	}

	ok, err := confirm(fmt.Sprintf("确定要删除文档 '%s' 吗?", doc.Title), docDeleteForce)
	if err != nil {
		return err
	}
	if !ok {
		ui.PrintInfo("Deletion cancelled")
		return nil
	}

	msg, err := rt.api.DeleteDocument(ctx, doc.ID)
	if err != nil {
		return rt.fail("删除文档", err)
	}
	ui.PrintSuccess("%s", messageOr(msg, "文档删除成功"))

	docs, err := consistency.WaitFor(ctx, listDocuments(rt, doc.KnowledgeBaseID), func(docs []types.Document) bool {
		return findDocument(docs, doc.ID) == nil
	}, rt.waitOptions())
	return renderDocumentsAfterWait(rt, docs, err)
}

func runDocProcess(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := rt.ctx(cmd)
	doc, err := rt.api.GetDocument(ctx, args[0])
	if err != nil {
		return rt.fail("获取文档", err)
	}
	if !doc.CanProcess() {
		ui.PrintError("只有已上传状态的文档可以处理，当前状态: %s", ui.DocumentStatusLabel(doc.Status))
		return fmt.Errorf("document not processable")
	}

	msg, err := rt.api.ProcessDocument(ctx, doc.ID)
	if err != nil {
		return rt.fail("处理文档", err)
	}
	ui.PrintSuccess("%s", messageOr(msg, "文档处理已开始"))

	docs, err := consistency.WaitFor(ctx, listDocuments(rt, doc.KnowledgeBaseID), func(docs []types.Document) bool {
		d := findDocument(docs, doc.ID)
		return d == nil || !d.CanProcess()
	}, rt.waitOptions())
	return renderDocumentsAfterWait(rt, docs, err)
}

func runDocWait(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := rt.ctx(cmd)
	id := args[0]
	var lastStatus types.DocumentStatus

	fetch := func(ctx context.Context) (*types.Document, error) {
		doc, err := rt.api.GetDocument(ctx, id)
		if err == nil && doc.Status != lastStatus {
			ui.PrintInfo("%s: %s", doc.Title, ui.ColoredDocumentStatus(doc.Status))
			lastStatus = doc.Status
		}
		return doc, err
	}
	doc, err := consistency.WaitFor(ctx, fetch, func(d *types.Document) bool {
		return d.IsTerminal()
	}, consistency.Options{Interval: docWaitInterval, Timeout: docWaitTimeout})

	switch {
	case isStale(err):
		ui.PrintWarning("等待超时，文档仍处于 %s 状态", ui.DocumentStatusLabel(doc.Status))
		return fmt.Errorf("wait timed out")
	case err != nil:
		return rt.fail("查询文档状态", err)
	case doc.Status == types.DocumentFailed:
		reason := doc.ErrorMessage
		if reason == "" {
			reason = "未知错误"
		}
		ui.PrintErrorBox("处理失败", reason)
		return fmt.Errorf("document processing failed")
	default:
		ui.PrintSuccess("文档 '%s' 处理完成", doc.Title)
		return nil
	}
}

func listDocuments(rt *runtime, kbID string) func(context.Context) ([]types.Document, error) {
	return func(ctx context.Context) ([]types.Document, error) {
		return rt.api.ListDocuments(ctx, kbID)
	}
}

// renderDocumentsAfterWait prints the document list fetched by a consistency wait
func renderDocumentsAfterWait(rt *runtime, docs []types.Document, err error) error {
	if err != nil && !isStale(err) {
		return rt.fail("刷新文档列表", err)
	}
	warnStale(err)
	ui.Println(ui.RenderDocumentTable(docs))
	return nil
}

func findDocument(docs []types.Document, id string) *types.Document {
	for i := range docs {
		if docs[i].ID == id {
			return &docs[i]
		}
	}
	return nil
}

func messageOr(msg *types.MessageResponse, fallback string) string {
	if msg == nil || msg.Message == "" {
		return fallback
	}
	return msg.Message
}
