package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

const (
	timeLayout          = "2006-01-02 15:04:05"
	descriptionMaxWidth = 40
	emptyCell           = "-"
)

var (
	blue   = color.New(color.FgBlue).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

var documentStatusLabels = map[types.DocumentStatus]string{
	types.DocumentUploaded:    "已上传",
	types.DocumentParsing:     "解析中",
	types.DocumentVectorizing: "向量化中",
	types.DocumentIndexing:    "索引中",
	types.DocumentCompleted:   "已完成",
	types.DocumentFailed:      "处理失败",
}

var knowledgeBaseStatusLabels = map[types.KnowledgeBaseStatus]string{
	types.KnowledgeBaseActive:   "启用",
	types.KnowledgeBaseInactive: "停用",
	types.KnowledgeBaseDeleted:  "已删除",
	types.KnowledgeBaseArchived: "已归档",
}

// Document actions offered per row
const (
	ActionProcess = "process"
	ActionDelete  = "delete"
)

// FormatSize renders a byte count as B, KB or MB with one decimal
func FormatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}

// FormatTime renders a backend timestamp in local time; zero renders as "-"
func FormatTime(t types.Time) string {
	if t.IsZero() {
		return emptyCell
	}
	return t.Local().Format(timeLayout)
}

// DocumentStatusLabel returns the display label; unknown statuses are shown verbatim
func DocumentStatusLabel(status types.DocumentStatus) string {
	if label, ok := documentStatusLabels[status]; ok {
		return label
	}
	return string(status)
}

// ColoredDocumentStatus returns the coloured label of a document status
func ColoredDocumentStatus(status types.DocumentStatus) string {
	label := DocumentStatusLabel(status)
	switch status {
	case types.DocumentUploaded:
		return blue(label)
	case types.DocumentParsing, types.DocumentVectorizing, types.DocumentIndexing:
		return yellow("⟳ " + label)
	case types.DocumentCompleted:
		return green(label)
	case types.DocumentFailed:
		return red(label)
	default:
		return label
	}
}

// KnowledgeBaseStatusLabel returns the display label of a knowledge base status
func KnowledgeBaseStatusLabel(status types.KnowledgeBaseStatus) string {
	if label, ok := knowledgeBaseStatusLabels[status]; ok {
		return label
	}
	return string(status)
}

func coloredKnowledgeBaseStatus(status types.KnowledgeBaseStatus) string {
	label := KnowledgeBaseStatusLabel(status)
	switch status {
	case types.KnowledgeBaseActive:
		return green(label)
	case types.KnowledgeBaseInactive, types.KnowledgeBaseArchived:
		return gray(label)
	case types.KnowledgeBaseDeleted:
		return red(label)
	default:
		return label
	}
}

// DocumentActions lists the actions available for a document row.
// Processing is offered only for freshly uploaded documents.
func DocumentActions(doc types.Document) []string {
	if doc.CanProcess() {
		return []string{ActionProcess, ActionDelete}
	}
	return []string{ActionDelete}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptyCell
	}
	return s
}

func truncate(s string) string {
	return runewidth.Truncate(orDash(s), descriptionMaxWidth, "…")
}

func newTable(headers ...string) *table.Table {
	rendered := make([]string, len(headers))
	for i, h := range headers {
		rendered[i] = Styles.Header.Render(h)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Styles.Key).
		StyleFunc(func(row, col int) lipgloss.Style { return Styles.Cell }).
		Headers(rendered...)
}

// RenderKnowledgeBaseTable renders the knowledge base list view
func RenderKnowledgeBaseTable(kbs []types.KnowledgeBase) string {
	if len(kbs) == 0 {
		return Styles.Key.Render("暂无知识库")
	}

	t := newTable("知识库名称", "详细描述", "创建时间", "更新时间", "Owner", "文档数量", "ID")
	for _, kb := range kbs {
		t.Row(
			Styles.Accent.Render(kb.Name),
			truncate(kb.Description),
			FormatTime(kb.CreatedAt),
			FormatTime(kb.UpdatedAt),
			orDash(kb.OwnerName()),
			fmt.Sprintf("%d", kb.DocumentCount),
			kb.ID,
		)
	}
	return t.String()
}

// RenderDocumentTable renders the document list of one knowledge base
func RenderDocumentTable(docs []types.Document) string {
	if len(docs) == 0 {
		return Styles.Key.Render("暂无文档")
	}

	t := newTable("文档名称", "文档描述", "文件大小", "文件类型", "状态", "上传时间", "操作", "ID")
	for _, doc := range docs {
		status := ColoredDocumentStatus(doc.Status)
		if doc.Status == types.DocumentFailed && doc.ErrorMessage != "" {
			status += " " + gray(runewidth.Truncate(doc.ErrorMessage, 30, "…"))
		}
		t.Row(
			doc.Title,
			truncate(doc.Description),
			FormatSize(doc.FileSize),
			orDash(strings.ToUpper(doc.DocType)),
			status,
			FormatTime(doc.CreatedAt),
			strings.Join(DocumentActions(doc), " | "),
			doc.ID,
		)
	}
	return t.String()
}

// RenderKnowledgeBaseDetail renders the edit view header of a knowledge base as a tree
func RenderKnowledgeBaseDetail(kb *types.KnowledgeBase) string {
	root := tree.Root(Styles.Highlight.Render(kb.Name) + Styles.Key.Render(" ("+kb.ID+")"))
	root.Child(
		formatKeyValue("描述:", orDash(kb.Description)),
		formatKeyValue("Owner:", orDash(kb.OwnerName())),
		formatKeyValue("状态:", coloredKnowledgeBaseStatus(kb.Status)),
		formatKeyValue("文档:", fmt.Sprintf("%d (%s)", kb.DocumentCount, FormatSize(kb.TotalSize))),
		formatKeyValue("创建:", FormatTime(kb.CreatedAt)),
		formatKeyValue("更新:", FormatTime(kb.UpdatedAt)),
	)
	return root.String()
}

// RenderSummary renders a "Total: n label" line
func RenderSummary(count int, label string) string {
	summary := fmt.Sprintf("Total: %s %s",
		Styles.Highlight.Render(fmt.Sprintf("%d", count)),
		Styles.Key.Render(label),
	)
	return Styles.Summary.Render(summary)
}

func formatKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s", Styles.Key.Render(key), value)
}
