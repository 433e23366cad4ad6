package cli

import (
	"fmt"

	"github.com/mx-space/feedguard/internal/modules/detection/lexicon"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Show the active pattern bank",
		Run:   runLexicon,
	}

	cmd.Flags().Bool("profiles", false, "Only list the built-in profile names")

	RootCmd.AddCommand(cmd)
}

func runLexicon(cmd *cobra.Command, args []string) {
	profilesOnly, _ := cmd.Flags().GetBool("profiles")
	if profilesOnly {
		for _, name := range lexicon.Profiles() {
			fmt.Println(name)
		}
		return
	}

	engine, _, err := openEngine(cmd.Context())
	if err != nil {
		exitErr("open engine", err)
	}
	printJSON(newDetectService(engine).Lexicon())
}
