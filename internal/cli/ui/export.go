package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/xuri/excelize/v2"
	"sigs.k8s.io/yaml"

	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
)

// Format is a list output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates an --output value; empty means table
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (table|json|yaml|xlsx)", s)
	}
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// WriteYAML writes v as YAML using its JSON field names
func WriteYAML(w io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteKnowledgeBasesXLSX writes the knowledge base list as a workbook
func WriteKnowledgeBasesXLSX(w io.Writer, kbs []types.KnowledgeBase) error {
	header := []interface{}{"ID", "知识库名称", "详细描述", "Owner", "状态", "文档数量", "总大小", "创建时间", "更新时间"}
	rows := make([][]interface{}, 0, len(kbs))
	for _, kb := range kbs {
		rows = append(rows, []interface{}{
			kb.ID, kb.Name, kb.Description, kb.OwnerName(), KnowledgeBaseStatusLabel(kb.Status),
			kb.DocumentCount, kb.TotalSize, FormatTime(kb.CreatedAt), FormatTime(kb.UpdatedAt),
		})
	}
	return writeSheet(w, "知识库", header, rows)
}

// WriteDocumentsXLSX writes a document list as a workbook
func WriteDocumentsXLSX(w io.Writer, docs []types.Document) error {
	header := []interface{}{"ID", "文档名称", "文档描述", "文件大小", "文件类型", "状态", "错误信息", "上传时间"}
	rows := make([][]interface{}, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, []interface{}{
			d.ID, d.Title, d.Description, d.FileSize, d.DocType, DocumentStatusLabel(d.Status),
			d.ErrorMessage, FormatTime(d.CreatedAt),
		})
	}
	return writeSheet(w, "文档", header, rows)
}

func writeSheet(w io.Writer, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
