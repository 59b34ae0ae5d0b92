package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/computelabs/create-computelabs-app/internal/answers"
	"github.com/computelabs/create-computelabs-app/internal/envfile"
	"github.com/computelabs/create-computelabs-app/internal/output"
	"github.com/computelabs/create-computelabs-app/internal/pipeline"
	"github.com/computelabs/create-computelabs-app/internal/pkgjson"
)

// treeDepth is how deep the summary tree goes without --verbose.
const treeDepth = 3

// printSummary prints warnings, the created-file tree and the next steps.
func printSummary(res *pipeline.Result, verbose bool) {
	log := output.ProjectLogger(res.Answers.ProjectName)
	for _, w := range res.Warnings {
		if w.Err != nil {
			log.Warn(w.Message, "phase", w.Phase, "error", w.Err)
			continue
		}
		log.Warn(w.Message, "phase", w.Phase)
	}
	if res.Git.Initialized {
		log.Info("initialized git repository", "committed", res.Git.Committed)
	}

	output.Println("")
	output.Println(output.FormatCheckmark(fmt.Sprintf("Created %s project %s",
		res.Answers.Type.Label(), output.StyleNoun.Render(res.Answers.ProjectName))))
	output.Println(output.StyleDim.Render("  " + res.Target.Path))
	output.Println("")
	output.Print(output.RenderFileTree(res.Answers.ProjectName, summaryFiles(res, verbose)))

	if verbose && res.Merge != nil && res.Merge.Changed() {
		diff, err := pkgjson.Diff(res.Merge.Before, res.Merge.After, output.IsTTY())
		if err != nil {
			output.Debug("package.json diff unavailable", "error", err)
		} else {
			output.Println("")
			output.Println(output.StyleSummary.Render("package.json dependencies from the overlay:"))
			output.Print(output.IndentBlock(diff, "  "))
		}
	}

	output.Println("")
	output.Print(output.RenderMarkdown(nextSteps(res)))
}

// summaryFiles returns the file map for the tree, collapsed below treeDepth
// unless verbose is set.
func summaryFiles(res *pipeline.Result, verbose bool) map[string]string {
	files := res.Files()
	if verbose {
		return files
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	out := make(map[string]string, len(files))
	for _, p := range output.CollapseTree(paths, treeDepth) {
		out[p] = files[p]
	}
	return out
}

// nextSteps renders the post-creation instructions as markdown.
func nextSteps(res *pipeline.Result) string {
	set := res.Answers
	var sb strings.Builder

	sb.WriteString("## Next steps\n\n")
	step := 1
	item := func(format string, args ...interface{}) {
		fmt.Fprintf(&sb, "%d. "+format+"\n", append([]interface{}{step}, args...)...)
		step++
	}

	item("`cd %s`", set.ProjectName)
	item("`npm install`")

	if set.Type.RequiresAI() {
		var keys []string
		for _, p := range set.Providers {
			if p.CredentialDefault() == "" {
				keys = append(keys, "`"+p.CredentialEnv()+"`")
			}
		}
		if len(keys) > 0 {
			item("Add %s to `%s`", strings.Join(keys, ", "), envfile.LocalFile)
		}
		if slices.Contains(set.Providers, answers.ProviderOllama) {
			item("Start Ollama locally (`ollama serve`)")
		}
	}
	if set.Type.RequiresWeb3() {
		item("The wallet connects to **%s** (`%s`); change `NEXT_PUBLIC_RPC_URL` in `%s` to use another endpoint",
			set.Network.Label(), set.Network.RPCURL(), envfile.LocalFile)
	}
	item("`npm run dev` and open %s", envfile.AppURL)

	if !res.Git.Initialized {
		sb.WriteString("\nNo git repository was created. Run `git init` when you are ready.\n")
	}
	return sb.String()
}
