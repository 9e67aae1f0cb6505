// ABOUTME: Root command and global flags for the tribe CLI
// ABOUTME: Wires every subcommand under a single cobra tree
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	userFlag     string
)

const banner = `
 ██████╗ ██████╗  ██████╗ ██╗    ██╗████████╗██╗  ██╗
██╔════╝ ██╔══██╗██╔═══██╗██║    ██║╚══██╔══╝██║  ██║
██║  ███╗██████╔╝██║   ██║██║ █╗ ██║   ██║   ███████║
██║   ██║██╔══██╗██║   ██║██║███╗██║   ██║   ██╔══██║
╚██████╔╝██║  ██║╚██████╔╝╚███╔███╔╝   ██║   ██║  ██║
 ╚═════╝ ╚═╝  ╚═╝ ╚═════╝  ╚══╝╚══╝    ╚═╝   ╚═╝  ╚═╝
                      T R I B E`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tribe",
		Short: "Growth Tribe community points and AI coach",
		Long: banner + `

Post, comment, like and react in the Growth Tribe community, earn growth
points, unlock badges and talk to the AI growth coach.

Points are stored locally in SQLite and can be backed up to Charm cloud.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table, json (export also accepts yaml, markdown)")
	cmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Member to act as (default $TRIBE_USER, then $USER)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewAccountCmd())
	cmd.AddCommand(NewPostCmd())
	cmd.AddCommand(NewCommentCmd())
	cmd.AddCommand(NewLikeCmd())
	cmd.AddCommand(NewReactCmd())
	cmd.AddCommand(NewShareCmd())
	cmd.AddCommand(NewFeedCmd())
	cmd.AddCommand(NewWalletCmd())
	cmd.AddCommand(NewBadgesCmd())
	cmd.AddCommand(NewLogCmd())
	cmd.AddCommand(NewCoachCmd())
	cmd.AddCommand(NewDraftCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
