package cli

import (
	"github.com/mbetts/wosync/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Staging    service.StageService
	Push       service.PushService
	Stack      service.StackService
	WorkOrders service.WorkOrderService
	Codes      service.CodeService
}

// NewRootCmd creates the top-level "wosync" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "wosync",
		Short: "Stage service notes and push them to remote work orders",
	}

	root.AddCommand(
		newStageCmd(app),
		newPushCmd(app),
		newStackCmd(app),
		newWorkOrderCmd(app),
		newCodesCmd(app),
	)

	return root
}
