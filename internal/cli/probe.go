package cli

import (
	"os"

	"github.com/mx-space/feedguard/internal/modules/detection/detect"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check connectivity to the remote model",
		Run:   runProbe,
	}

	cmd.Flags().String("api-key", "", "Override the configured API key")
	cmd.Flags().String("endpoint", "", "Override the configured endpoint")
	cmd.Flags().String("provider", "", "Override the configured provider")
	cmd.Flags().String("model", "", "Override the configured model")

	RootCmd.AddCommand(cmd)
}

func runProbe(cmd *cobra.Command, args []string) {
	var req detect.ProbeRequest
	req.APIKey, _ = cmd.Flags().GetString("api-key")
	req.Endpoint, _ = cmd.Flags().GetString("endpoint")
	req.Provider, _ = cmd.Flags().GetString("provider")
	req.Model, _ = cmd.Flags().GetString("model")

	engine, _, err := openEngine(cmd.Context())
	if err != nil {
		exitErr("open engine", err)
	}

	result := newDetectService(engine).Probe(cmd.Context(), req)
	printJSON(result)
	if !result.Success {
		os.Exit(2)
	}
}
