package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/tingxin/ai-customer-assistant/internal/cli/consistency"
	"github.com/tingxin/ai-customer-assistant/internal/cli/form"
	"github.com/tingxin/ai-customer-assistant/internal/cli/loader"
	"github.com/tingxin/ai-customer-assistant/internal/cli/types"
	"github.com/tingxin/ai-customer-assistant/internal/cli/ui"
)

var (
	kbListStatus string
	kbListOutput string
	kbListFile   string

	kbCreateName        string
	kbCreateDescription string
	kbCreateOwner       string
	kbCreateFile        string

	kbUpdateName        string
	kbUpdateDescription string
	kbUpdateOwner       string
	kbUpdateStatus      string

	kbDeleteHard  bool
	kbDeleteForce bool
)

// kbCmd groups knowledge base subcommands
var kbCmd = &cobra.Command{
	Use:     "kb",
	Aliases: []string{"knowledgebase", "knowledge-base"},
	Short:   "manage knowledge bases",
	Long: `Manage knowledge bases.

Every mutation re-reads the list until the backend reflects the change,
then prints the refreshed list.`,
}

var kbListCmd = &cobra.Command{
	Use:   "list",
	Short: "list knowledge bases",
	Example: `  $ kbctl kb list
  $ kbctl kb list --status active -o json
  $ kbctl kb list -o xlsx --file kbs.xlsx`,
	Args: cobra.NoArgs,
	RunE: runKBList,
}

var kbGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "show a knowledge base and its documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runKBGet,
}

var kbCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "create a knowledge base",
	Long: `Create a knowledge base.

Without --name or -f you are prompted for every field.`,
	Example: `  # Interactive
  $ kbctl kb create

  # Non-interactive
  $ kbctl kb create --name 产品手册 --description "产品使用说明" --owner alice

  # From a resource file
  $ kbctl kb create -f kb.yaml`,
	Args: cobra.NoArgs,
	RunE: runKBCreate,
}

var kbUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "update a knowledge base",
	Long: `Update a knowledge base.

Only the flags you pass are sent. Without flags you are prompted with the
current values pre-filled.`,
	Example: `  $ kbctl kb update <id> --description "新的描述"
  $ kbctl kb update <id> --status archived
  $ kbctl kb update <id>`,
	Args: cobra.ExactArgs(1),
	RunE: runKBUpdate,
}

var kbDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "delete a knowledge base",
	Long: `Delete a knowledge base.

By default the record is soft deleted. Use --hard to remove it permanently.
You will be prompted to confirm unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runKBDelete,
}

func init() {
	kbListCmd.Flags().StringVar(&kbListStatus, "status", "", "Filter by status: active, inactive, deleted, archived")
	addOutputFlags(kbListCmd, &kbListOutput, &kbListFile)

	kbCreateCmd.Flags().StringVar(&kbCreateName, "name", "", "Knowledge base name (2-50 characters)")
	kbCreateCmd.Flags().StringVar(&kbCreateDescription, "description", "", "Description (at most 500 characters)")
	kbCreateCmd.Flags().StringVar(&kbCreateOwner, "owner", form.DefaultOwner, "Owner")
	kbCreateCmd.Flags().StringVarP(&kbCreateFile, "file", "f", "", "YAML file containing a KnowledgeBase resource")

	kbUpdateCmd.Flags().StringVar(&kbUpdateName, "name", "", "New name")
	kbUpdateCmd.Flags().StringVar(&kbUpdateDescription, "description", "", "New description")
	kbUpdateCmd.Flags().StringVar(&kbUpdateOwner, "owner", "", "New owner")
	kbUpdateCmd.Flags().StringVar(&kbUpdateStatus, "status", "", "New status: active, inactive, archived")

	kbDeleteCmd.Flags().BoolVar(&kbDeleteHard, "hard", false, "Delete permanently instead of marking as deleted")
	kbDeleteCmd.Flags().BoolVarP(&kbDeleteForce, "force", "f", false, "Skip confirmation prompt")

	for _, c := range []*cobra.Command{kbListCmd, kbGetCmd, kbCreateCmd, kbUpdateCmd, kbDeleteCmd} {
		c.SilenceUsage = true
		kbCmd.AddCommand(c)
	}
}

func runKBList(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	kbs, err := rt.api.ListKnowledgeBases(rt.ctx(cmd), types.ListKnowledgeBasesOptions{Status: kbListStatus})
	if err != nil {
		return rt.fail("获取知识库列表", err)
	}

	return emit(cmd, kbListOutput, kbListFile, listOutput{
		value: kbs,
		table: func() string {
			return ui.RenderKnowledgeBaseTable(kbs) + "\n" + ui.RenderSummary(len(kbs), "knowledge bases")
		},
		xlsx:        func(w io.Writer) error { return ui.WriteKnowledgeBasesXLSX(w, kbs) },
		defaultFile: "knowledge-bases.xlsx",
	})
}

func runKBGet(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := rt.ctx(cmd)
	kb, err := rt.api.GetKnowledgeBase(ctx, args[0])
	if err != nil {
		return rt.fail("获取知识库详情", err)
	}
	docs, err := rt.api.ListDocuments(ctx, kb.ID)
	if err != nil {
		return rt.fail("获取文档列表", err)
	}

	ui.Println(ui.RenderKnowledgeBaseDetail(kb))
	ui.Println("")
	ui.Println(ui.RenderDocumentTable(docs))
	return nil
}

func runKBCreate(cmd *cobra.Command, args []string) error {
	req, err := buildCreateRequest(cmd)
	if err != nil {
		return err
	}

	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := rt.ctx(cmd)
	created, err := rt.api.CreateKnowledgeBase(ctx, req)
	if err != nil {
		return rt.fail("创建知识库", err)
	}
	ui.PrintSuccess("知识库 '%s' 创建成功", created.Name)

	kbs, err := consistency.WaitFor(ctx, listKnowledgeBases(rt), func(kbs []types.KnowledgeBase) bool {
		return containsKnowledgeBase(kbs, created.ID, req)
	}, rt.waitOptions())
	return renderKnowledgeBasesAfterWait(rt, kbs, err)
}

// buildCreateRequest takes the request from -f, from flags, or from prompts
func buildCreateRequest(cmd *cobra.Command) (*types.CreateKnowledgeBaseRequest, error) {
	if kbCreateFile != "" {
		resource, err := loader.LoadFromFile(kbCreateFile)
		if err != nil {
			ui.PrintError("failed to load %s: %v", kbCreateFile, err)
			return nil, fmt.Errorf("invalid resource file")
		}
		req, err := resource.ToCreateRequest()
		if err != nil {
			ui.PrintError("%v", err)
			return nil, fmt.Errorf("invalid resource file")
		}
		return req, nil
	}

	values := map[string]string{
		"name":        kbCreateName,
		"description": kbCreateDescription,
		"owner":       kbCreateOwner,
	}
	if !cmd.Flags().Changed("name") {
		if err := promptKnowledgeBase(values); err != nil {
			return nil, err
		}
	}

	if err := form.KnowledgeBaseRules.Validate(values); err != nil {
		ui.PrintError("%v", err)
		return nil, fmt.Errorf("invalid input")
	}

	return &types.CreateKnowledgeBaseRequest{
		Name:        strings.TrimSpace(values["name"]),
		Description: strings.TrimSpace(values["description"]),
		Owner:       strings.TrimSpace(values["owner"]),
	}, nil
}

// promptKnowledgeBase asks for every form field, pre-filled with values
func promptKnowledgeBase(values map[string]string) error {
	questions := []*survey.Question{
		{
			Name:     "name",
			Prompt:   &survey.Input{Message: "知识库名称:", Default: values["name"]},
			Validate: form.KnowledgeBaseRules.Field("name").Validator(),
		},
		{
			Name:     "description",
			Prompt:   &survey.Input{Message: "详细描述:", Default: values["description"]},
			Validate: form.KnowledgeBaseRules.Field("description").Validator(),
		},
		{
			Name:     "owner",
			Prompt:   &survey.Input{Message: "Owner:", Default: values["owner"]},
			Validate: form.KnowledgeBaseRules.Field("owner").Validator(),
		},
	}

	answers := struct {
		Name        string `survey:"name"`
		Description string `survey:"description"`
		Owner       string `survey:"owner"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	values["name"] = answers.Name
	values["description"] = answers.Description
	values["owner"] = answers.Owner
	return nil
}

func runKBUpdate(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := rt.ctx(cmd)
	current, err := rt.api.GetKnowledgeBase(ctx, args[0])
	if err != nil {
		return rt.fail("获取知识库详情", err)
	}

	req, err := buildUpdateRequest(cmd, current)
	if err != nil {
		return err
	}
	if req.IsEmpty() {
		ui.PrintInfo("没有需要更新的字段")
		return nil
	}

	updated, err := rt.api.UpdateKnowledgeBase(ctx, current.ID, req)
	if err != nil {
		return rt.fail("更新知识库", err)
	}

	ui.PrintSuccess("知识库 '%s' 更新成功", updated.Name)
	ui.Println(ui.RenderKnowledgeBaseDetail(updated))
	return nil
}

// buildUpdateRequest diffs the requested values against the current record
func buildUpdateRequest(cmd *cobra.Command, current *types.KnowledgeBase) (*types.UpdateKnowledgeBaseRequest, error) {
	values := map[string]string{
		"name":        current.Name,
		"description": current.Description,
		"owner":       current.OwnerName(),
	}

	flags := cmd.Flags()
	interactive := !flags.Changed("name") && !flags.Changed("description") &&
		!flags.Changed("owner") && !flags.Changed("status")

	if interactive {
		if err := promptKnowledgeBase(values); err != nil {
			return nil, err
		}
	} else {
		if flags.Changed("name") {
			values["name"] = kbUpdateName
		}
		if flags.Changed("description") {
			values["description"] = kbUpdateDescription
		}
		if flags.Changed("owner") {
			values["owner"] = kbUpdateOwner
		}
	}

	if err := form.KnowledgeBaseRules.Validate(values); err != nil {
		ui.PrintError("%v", err)
		return nil, fmt.Errorf("invalid input")
	}

	req := &types.UpdateKnowledgeBaseRequest{}
	if v := strings.TrimSpace(values["name"]); v != current.Name {
		req.Name = &v
	}
	if v := strings.TrimSpace(values["description"]); v != current.Description {
		req.Description = &v
	}
	if v := strings.TrimSpace(values["owner"]); v != current.OwnerName() {
		req.Owner = &v
	}
	if flags.Changed("status") {
		status, err := parseKnowledgeBaseStatus(kbUpdateStatus)
		if err != nil {
			ui.PrintError("%v", err)
			return nil, fmt.Errorf("invalid input")
		}
		if status != current.Status {
			req.Status = &status
		}
	}
	return req, nil
}

func parseKnowledgeBaseStatus(s string) (types.KnowledgeBaseStatus, error) {
	switch status := types.KnowledgeBaseStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case types.KnowledgeBaseActive, types.KnowledgeBaseInactive, types.KnowledgeBaseArchived, types.KnowledgeBaseDeleted:
		return status, nil
	default:
		return "", fmt.Errorf("invalid status %q", s)
	}
}

func runKBDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	mode := "删除"
	if kbDeleteHard {
		mode = "永久删除"
	}
	ok, err := confirm(fmt.Sprintf("确定要%s知识库 '%s' 吗?", mode, id), kbDeleteForce)
	if err != nil {
		return err
	}
	if !ok {
		ui.PrintInfo("Deletion cancelled")
		return nil
	}

	ctx := rt.ctx(cmd)
	if err := rt.api.DeleteKnowledgeBase(ctx, id, kbDeleteHard); err != nil {
		return rt.fail("删除知识库", err)
	}
	ui.PrintSuccess("知识库 '%s' 已%s", id, mode)

	kbs, err := consistency.WaitFor(ctx, listKnowledgeBases(rt), func(kbs []types.KnowledgeBase) bool {
		return !containsID(kbs, id)
	}, rt.waitOptions())
	return renderKnowledgeBasesAfterWait(rt, kbs, err)
}

func listKnowledgeBases(rt *runtime) func(context.Context) ([]types.KnowledgeBase, error) {
	return func(ctx context.Context) ([]types.KnowledgeBase, error) {
		return rt.api.ListKnowledgeBases(ctx, types.ListKnowledgeBasesOptions{})
	}
}

// renderKnowledgeBasesAfterWait prints the list fetched by a consistency wait
func renderKnowledgeBasesAfterWait(rt *runtime, kbs []types.KnowledgeBase, err error) error {
	if err != nil && !isStale(err) {
		return rt.fail("刷新知识库列表", err)
	}
	warnStale(err)
	ui.Println(ui.RenderKnowledgeBaseTable(kbs))
	return nil
}

// containsKnowledgeBase matches by id, or by the submitted fields when the id is unknown
func containsKnowledgeBase(kbs []types.KnowledgeBase, id string, req *types.CreateKnowledgeBaseRequest) bool {
	for _, kb := range kbs {
		if id != "" && kb.ID == id {
			return true
		}
		if id == "" && kb.Name == req.Name && kb.Description == req.Description && kb.OwnerName() == req.Owner {
			return true
		}
	}
	return false
}

func containsID(kbs []types.KnowledgeBase, id string) bool {
	for _, kb := range kbs {
		if kb.ID == id {
			return true
		}
	}
	return false
}
