package cmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/pterm/pterm"

	"github.com/thisismy-go/thisismy/config"
	"github.com/thisismy-go/thisismy/fetcher"
	"github.com/thisismy-go/thisismy/resolver"
)

// writeAggregate fetches every selected resource and writes the combined
// stream to stdout or the configured output file. Per-resource fetch
// failures are warned about and skipped, never fatal.
func writeAggregate(ctx context.Context, client fetcher.Fetcher, resources []resolver.Resource, cfg *config.Config) error {
	var builder strings.Builder

	for _, res := range resources {
		content, err := client.Fetch(ctx, res.Identifier)
		if err != nil {
			if !cfg.Silent {
				pterm.Warning.Printfln("skipping %s: %v", res.Identifier, err)
			}
			continue
		}

		builder.WriteString(fmt.Sprintf("This is my current %s:\n\n", res.Identifier))
		if cfg.Markdown && res.IsLocal() {
			builder.WriteString("```" + fenceLang(res.Identifier) + "\n")
			builder.Write(content)
			if len(content) > 0 && content[len(content)-1] != '\n' {
				builder.WriteByte('\n')
			}
			builder.WriteString("```\n\n")
		} else {
			builder.Write(content)
			builder.WriteString("\n\n")
		}
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, []byte(builder.String()), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		if !cfg.Silent {
			pterm.Success.Printfln("wrote %s", cfg.Output)
		}
		return nil
	}

	fmt.Print(builder.String())
	return nil
}

// fenceLang picks a code-fence language tag from the file extension.
func fenceLang(identifier string) string {
	ext := strings.TrimPrefix(path.Ext(identifier), ".")
	return ext
}
