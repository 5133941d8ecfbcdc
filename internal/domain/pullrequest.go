package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	maxListedModels  = 50
	maxPreviewModels = 3
	branchTimeFmt    = "20060102-150405"
	catalogueURL     = "https://fireworks.ai/models"
)

// BranchName returns the branch used for a submission made at t.
func BranchName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, t.UTC().Format(branchTimeFmt))
}

// PullRequestTitle returns the pull request (and commit) title.
func PullRequestTitle(records []ModelRecord) string {
	return fmt.Sprintf("Add %d new Fireworks AI models", len(records))
}

// PullRequestBody renders the pull request description.
func PullRequestBody(records []ModelRecord) string {
	var b strings.Builder

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "This PR adds **%d new Fireworks AI models** to the LiteLLM model pricing database.\n\n", len(records))

	b.WriteString("### Model Types Added\n")
	b.WriteString(modeSummary(records))
	b.WriteString("\n\n### Models Added\n\n")

	for i, r := range records {
		if i == maxListedModels {
			fmt.Fprintf(&b, "- ... and %d more models\n", len(records)-maxListedModels)
			break
		}
		fmt.Fprintf(&b, "- `%s`\n", NamespacedKey(r.Identifier))
	}

	if unpriced := unpricedIdentifiers(records); len(unpriced) > 0 {
		b.WriteString("\n### Unknown Pricing\n\n")
		b.WriteString("No price could be read for the following models; their costs are written as 0 and need manual review:\n\n")
		for _, id := range unpriced {
			fmt.Fprintf(&b, "- `%s`\n", id)
		}
	}

	if preview, err := RenderEntries(records[:min(maxPreviewModels, len(records))]); err == nil {
		b.WriteString("\n### Sample Entries\n\n```json\n")
		b.WriteString(preview)
		b.WriteString("\n```\n")
	}

	b.WriteString("\n---\n\n### Source\n")
	fmt.Fprintf(&b, "Models scraped from %s\n\n", catalogueURL)
	b.WriteString("### Verification\n")
	fmt.Fprintf(&b, "Please verify the pricing information is accurate by checking %s\n", catalogueURL)

	return b.String()
}

func modeSummary(records []ModelRecord) string {
	counts := make(map[string]int)
	for _, r := range records {
		counts[ToPricingObject(r).Mode]++
	}

	modes := make([]string, 0, len(counts))
	for mode := range counts {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	parts := make([]string, 0, len(modes))
	for _, mode := range modes {
		parts = append(parts, fmt.Sprintf("%d %s", counts[mode], mode))
	}

	return strings.Join(parts, ", ")
}

func unpricedIdentifiers(records []ModelRecord) []string {
	var ids []string
	for _, r := range records {
		if !r.HasPrice() {
			ids = append(ids, r.Identifier)
		}
	}
	return ids
}
