package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/tingxin/ai-customer-assistant/internal/cli/client"
	"github.com/tingxin/ai-customer-assistant/internal/cli/config"
	"github.com/tingxin/ai-customer-assistant/internal/cli/consistency"
	"github.com/tingxin/ai-customer-assistant/internal/cli/form"
	"github.com/tingxin/ai-customer-assistant/internal/cli/ui"
	"github.com/tingxin/ai-customer-assistant/internal/cli/upload"
	"github.com/tingxin/ai-customer-assistant/pkg/logger"
)

// runtime bundles what every backend command needs
type runtime struct {
	cfg      *config.Config
	log      *slog.Logger
	api      *client.APIClient
	closeLog func() error
}

// loadConfig reads the config file and applies the global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if serverFlag != "" {
		cfg.Server = serverFlag
	}
	if logLevelFlag != "" {
		cfg.Log.Level = logLevelFlag
	}
	return cfg, cfg.Validate()
}

// setup loads config, initializes logging and creates the API client
func setup(cmd *cobra.Command) (*runtime, error) {
	return newRuntime(cmd, false)
}

// setupFullScreen is setup for commands that hand the terminal to a
// full-screen UI. Logs are dropped unless they go to a file.
func setupFullScreen(cmd *cobra.Command) (*runtime, error) {
	return newRuntime(cmd, true)
}

func newRuntime(cmd *cobra.Command, fullScreen bool) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return nil, fmt.Errorf("config load failed")
	}

	logOut := cmd.ErrOrStderr()
	if fullScreen && cfg.Log.Output != "file" {
		cfg.Log.Output = "stderr"
		logOut = io.Discard
	}

	log, closeLog, err := logger.Setup(cfg.Log, logOut)
	if err != nil {
		ui.PrintError("failed to initialize logger: %v", err)
		return nil, fmt.Errorf("logger setup failed")
	}

	api, err := client.NewAPIClient(cfg.Server, client.WithTimeout(cfg.Timeout), client.WithLogger(log))
	if err != nil {
		_ = closeLog()
		ui.PrintError("failed to create client: %v", err)
		return nil, fmt.Errorf("client creation failed")
	}

	log.Debug("kbctl runtime ready", "command", cmd.CommandPath(), "server", api.Server())
	return &runtime{cfg: cfg, log: log, api: api, closeLog: closeLog}, nil
}

// Close releases the log file, if any
func (r *runtime) Close() {
	if err := r.closeLog(); err != nil {
		r.log.Warn("failed to close log file", "error", err)
	}
}

// ctx returns the command context carrying the logger
func (r *runtime) ctx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logger.WithContext(ctx, r.log)
}

// waitOptions returns the polling bounds used after mutations
func (r *runtime) waitOptions() consistency.Options {
	return consistency.Options{Interval: r.cfg.Wait.Interval, Timeout: r.cfg.Wait.Timeout}
}

// fail prints a user-facing message for err and returns the short command error
func (r *runtime) fail(action string, err error) error {
	r.log.Debug("command failed", "action", action, "error", err)

	var fieldErr *form.FieldError
	switch {
	case errors.As(err, &fieldErr):
		ui.PrintError("%s", fieldErr.Message)
	case errors.Is(err, upload.ErrRejected):
		ui.PrintError("%v", err)
	case client.IsTransport(err):
		ui.PrintError("无法连接后端服务 %s", r.api.Server())
		ui.PrintInfo("请检查后端服务是否启动，或使用 'kbctl config set-server' 修改地址")
	default:
		ui.PrintError("%s失败: %s", action, client.UserMessage(err, err.Error()))
	}
	return fmt.Errorf("%s failed", action)
}

// isStale reports a wait that timed out after a successful fetch
func isStale(err error) bool {
	return consistency.IsStale(err)
}

// warnStale reports a wait that timed out; the caller still renders the last fetched state
func warnStale(err error) {
	if isStale(err) {
		ui.PrintWarning("后端数据尚未同步，以下为最近一次获取的结果")
	}
}

// confirm asks a yes/no question unless force is set
func confirm(message string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false, fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return ok, nil
}
