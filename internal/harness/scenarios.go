// Package harness checks that every project type generates a complete
// project from a template repository.
package harness

import "github.com/computelabs/create-computelabs-app/internal/answers"

// Scenario is one project type generated and checked in isolation.
type Scenario struct {
	Name    string
	Answers answers.Set

	RequiredFiles        []string
	RequiredDependencies []string

	// ForbiddenPaths must not exist after generation.
	ForbiddenPaths []string
}

var aiFiles = []string{
	"src/lib/ai/config.ts",
	"src/lib/ai/ai-service.ts",
	"src/components/ai/chat-interface.tsx",
	"src/app/api/ai/chat/route.ts",
	"src/app/[locale]/ai-demo/page.tsx",
}

var web3Files = []string{
	"src/components/providers/app-wallet-provider.tsx",
	"src/components/defi/token-swap.tsx",
	"src/lib/solana/connection.ts",
	"src/app/[locale]/swap/page.tsx",
}

var (
	aiDeps   = []string{"openai", "@anthropic-ai/sdk", "ai"}
	web3Deps = []string{"@solana/web3.js", "@solana/wallet-adapter-react", "@solana/wallet-adapter-wallets"}
)

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

// Scenarios returns the four built-in scenarios, one per project type.
func Scenarios() []Scenario {
	twoProviders := []answers.Provider{answers.ProviderOpenAI, answers.ProviderAnthropic}

	return []Scenario{
		{
			Name: "standard-web2",
			Answers: answers.Set{
				ProjectName: "standard-web2",
				Description: "Test Standard Web2 Project",
				Author:      "Test Author",
				Type:        answers.TypeStandard,
			},
			RequiredFiles: []string{
				"package.json",
				"README.md",
				"tsconfig.json",
				"tailwind.config.ts",
				"next.config.mjs",
				"src/app/[locale]/page.tsx",
				"src/components/providers/root-providers.tsx",
				"src/lib/i18n/settings.ts",
				".env.local",
				".env.example",
			},
			RequiredDependencies: []string{"next", "react", "react-dom", "@reduxjs/toolkit", "next-intl", "next-themes"},
			ForbiddenPaths:       []string{"src/lib/ai", "src/lib/solana", "src/components/ai", "src/components/defi"},
		},
		{
			Name: "ai-structured",
			Answers: answers.Set{
				ProjectName:     "ai-structured",
				Description:     "Test AI Project",
				Author:          "Test Author",
				Type:            answers.TypeAI,
				Providers:       twoProviders,
				IncludeExamples: true,
			},
			RequiredFiles: concat(
				[]string{"package.json"},
				aiFiles,
				[]string{"src/lib/ai/openai.ts", "src/lib/ai/anthropic.ts", ".env.local"},
			),
			RequiredDependencies: aiDeps,
		},
		{
			Name: "web3-solana",
			Answers: answers.Set{
				ProjectName: "web3-solana",
				Description: "Test Web3 Project",
				Author:      "Test Author",
				Type:        answers.TypeWeb3,
				Network:     answers.NetworkDevnet,
				IncludeDefi: true,
			},
			RequiredFiles: concat(
				[]string{"package.json"},
				web3Files,
				[]string{"src/lib/solana/tokens.ts", ".env.local"},
			),
			RequiredDependencies: web3Deps,
		},
		{
			Name: "ai-web3-combined",
			Answers: answers.Set{
				ProjectName:     "ai-web3-combined",
				Description:     "Test AI + Web3 Combined Project",
				Author:          "Test Author",
				Type:            answers.TypeAIWeb3,
				Providers:       twoProviders,
				IncludeExamples: true,
				Network:         answers.NetworkDevnet,
				IncludeDefi:     true,
			},
			RequiredFiles: concat(
				[]string{"package.json"},
				aiFiles,
				web3Files,
				[]string{"src/app/[locale]/page.tsx", ".env.local"},
			),
			RequiredDependencies: concat(aiDeps, web3Deps),
		},
	}
}
