package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mx-space/feedguard/internal/modules/detection/detect"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify one text unit (reads stdin when no text is given)",
		Args:  cobra.MaximumNArgs(1),
		Run:   runClassify,
	}

	cmd.Flags().String("id", "", "Unit identifier reported back in the outcome")

	RootCmd.AddCommand(cmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")

	text, err := readText(args, cmd.InOrStdin())
	if err != nil {
		exitErr("read text", err)
	}

	engine, _, err := openEngine(cmd.Context())
	if err != nil {
		exitErr("open engine", err)
	}

	printJSON(newDetectService(engine).Detect(cmd.Context(), detect.DetectRequest{ID: id, Text: text}))
}

func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(b)) == "" {
		return "", errors.New("no text given")
	}
	return string(b), nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
