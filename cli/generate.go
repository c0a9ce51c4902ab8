package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "generate [prompt]",
		Short: "Generate an image from a prompt",
		Long: "Classifies the prompt as a fresh request or a remix of a past " +
			"creation, expands it, generates an image, and saves the creation to memory.",
		Args: cobra.MinimumNArgs(1),
		Run:  runGenerate,
	}
	RootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) {
	cfg, log, cleanup := setup()
	defer cleanup()

	prompt := strings.Join(args, " ")

	eng, mem, err := buildEngine(cmd.Context(), cfg, log)
	if err != nil {
		exitErr("initialize pipeline", err)
	}
	defer mem.Close()

	res, err := eng.Run(cmd.Context(), prompt)
	if err != nil {
		exitErr("generate", err)
	}

	path, err := saveImage(cfg.OutputDir, res.Image)
	if err != nil {
		exitErr("save image", err)
	}

	fmt.Printf("intent:   %s\n", res.Intent)
	if res.Demoted {
		fmt.Println("note:     no past creation to remix, generated fresh")
	}
	if res.Recalled != nil {
		fmt.Printf("remixed:  %s (distance %.4f)\n", res.Recalled.ID, res.RecallDistance)
	}
	if res.CreationID != "" {
		fmt.Printf("saved:    %s\n", res.CreationID)
	}
	fmt.Printf("image:    %s\n", path)
}

// saveImage writes the image bytes under dir with a timestamped name.
func saveImage(dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("generated_image_%s.png", time.Now().Format("20060102150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
