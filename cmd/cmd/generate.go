/*
Copyright © 2025 Your Name

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"repurpose/internal/config"
	"repurpose/internal/core"
	"repurpose/internal/fetch"
	"repurpose/internal/insights"
	"repurpose/internal/llm"
	"repurpose/internal/logger"
	"repurpose/internal/pipeline"
	"repurpose/internal/render"
	"repurpose/internal/segment"
	"repurpose/internal/sources"
	"repurpose/internal/visual"
	"repurpose/internal/writer"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the content pipeline",
	Long: `Run the full pipeline: extract insights from a transcript file and/or
source URLs, generate posts and articles across the selected angles, and
derive image intents. Results are written as a markdown bundle.

Post angles: contrarian, field_note, demystification, identity_validation,
provocateur, synthesizer, curious_cat.
Article angles: deep_dive, framework, myth_buster, industry_lens, narrative.

Example:
  repurpose generate --transcript talk.txt --angles contrarian,field_note --versions 2
  repurpose generate --source https://a.example.com --source https://b.example.com`,
	Run: func(cmd *cobra.Command, args []string) {
		transcriptFile, _ := cmd.Flags().GetString("transcript")
		sourceURLs, _ := cmd.Flags().GetStringSlice("source")
		angles, _ := cmd.Flags().GetStringSlice("angles")
		articleAngles, _ := cmd.Flags().GetStringSlice("article-angles")
		versions, _ := cmd.Flags().GetInt("versions")
		articleVersions, _ := cmd.Flags().GetInt("article-versions")
		maxInsights, _ := cmd.Flags().GetInt("max-insights")
		outputDir, _ := cmd.Flags().GetString("output")

		if err := runGenerate(cmd.Context(), generateParams{
			transcriptFile:  transcriptFile,
			sourceURLs:      sourceURLs,
			angles:          angles,
			articleAngles:   articleAngles,
			versions:        versions,
			articleVersions: articleVersions,
			maxInsights:     maxInsights,
			outputDir:       outputDir,
		}); err != nil {
			logger.Error("Failed to generate content", err)
			os.Exit(1)
		}
	},
}

type generateParams struct {
	transcriptFile  string
	sourceURLs      []string
	angles          []string
	articleAngles   []string
	versions        int
	articleVersions int
	maxInsights     int
	outputDir       string
}

func runGenerate(ctx context.Context, params generateParams) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags override config; zero values fall back.
	if len(params.sourceURLs) == 0 {
		params.sourceURLs = cfg.Generation.SourceURLs
	}
	if len(params.angles) == 0 {
		params.angles = cfg.Generation.SelectedAngles
	}
	if len(params.articleAngles) == 0 {
		params.articleAngles = cfg.Generation.SelectedArticleAngles
	}
	if params.versions == 0 {
		params.versions = cfg.Generation.VersionsPerAngle
	}
	if params.articleVersions == 0 {
		params.articleVersions = cfg.Generation.ArticleVersionsPerAngle
	}
	if params.maxInsights == 0 {
		params.maxInsights = cfg.Generation.MaxInsights
	}
	if params.outputDir == "" {
		params.outputDir = cfg.Output.Directory
	}

	var transcript string
	if params.transcriptFile != "" {
		data, err := os.ReadFile(params.transcriptFile)
		if err != nil {
			return fmt.Errorf("failed to read transcript file: %w", err)
		}
		transcript = string(data)
	}

	postAngles, err := parsePostAngles(params.angles)
	if err != nil {
		return err
	}
	articleAngleSet, err := parseArticleAngles(params.articleAngles)
	if err != nil {
		return err
	}

	gateway, err := llm.NewGateway(ctx, llm.Config{
		ProviderPriority: cfg.AI.ProviderPriority,
		Gemini: llm.ProviderSettings{
			APIKey:    cfg.AI.Gemini.APIKey,
			Model:     cfg.AI.Gemini.Model,
			MaxTokens: cfg.AI.Gemini.MaxTokens,
		},
		OpenAI: llm.ProviderSettings{
			APIKey:    cfg.AI.OpenAI.APIKey,
			Model:     cfg.AI.OpenAI.Model,
			MaxTokens: cfg.AI.OpenAI.MaxTokens,
		},
		Anthropic: llm.ProviderSettings{
			APIKey:    cfg.AI.Anthropic.APIKey,
			Model:     cfg.AI.Anthropic.Model,
			MaxTokens: cfg.AI.Anthropic.MaxTokens,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize model gateway: %w", err)
	}

	logger.Info("Starting pipeline run",
		"model", gateway.Model(),
		"sources", len(params.sourceURLs),
		"has_transcript", transcript != "",
		"angles", len(postAngles),
		"article_angles", len(articleAngleSet))

	fetcher := fetch.NewFetcher(nil, fetch.Options{
		Timeout:          cfg.Fetch.Timeout,
		MaxContentLength: cfg.Fetch.MaxContentLength,
		UserAgent:        cfg.Fetch.UserAgent,
	})
	contentWriter := writer.NewWriter(gateway, cfg.Generation.VoiceProfile)

	p := pipeline.New(
		fetcher,
		sources.NewSummarizer(gateway),
		sources.NewSynthesizer(gateway),
		segment.NewSegmenter(gateway),
		insights.NewExtractor(gateway),
		writer.NewPostSupervisor(contentWriter),
		writer.NewArticleSupervisor(contentWriter),
		visual.NewIntentGenerator(gateway),
	)

	result, err := p.Run(ctx, pipeline.RunOptions{
		Transcript:              transcript,
		SourceURLs:              params.sourceURLs,
		MaxInsights:             params.maxInsights,
		SelectedAngles:          postAngles,
		VersionsPerAngle:        params.versions,
		SelectedArticleAngles:   articleAngleSet,
		ArticleVersionsPerAngle: params.articleVersions,
	})
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	path, err := render.RenderMarkdownBundle(result, params.outputDir)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	fmt.Printf("✅ Generated %d posts, %d articles, %d image intents from %d insights\n",
		result.TotalPosts, result.TotalArticles, len(result.ImageIntents), len(result.Insights))
	for _, se := range result.SourceErrors {
		fmt.Printf("⚠️  Source skipped: %s (%s)\n", se.URL, se.Error)
	}
	fmt.Printf("📄 Output written to %s\n", path)

	return nil
}

func parsePostAngles(names []string) ([]core.PostAngle, error) {
	var angles []core.PostAngle
	for _, name := range names {
		angle := core.PostAngle(name)
		if !validPostAngle(angle) {
			return nil, fmt.Errorf("unknown post angle %q (valid: %v)", name, core.AllPostAngles)
		}
		angles = append(angles, angle)
	}
	return angles, nil
}

func validPostAngle(angle core.PostAngle) bool {
	for _, a := range core.AllPostAngles {
		if a == angle {
			return true
		}
	}
	return false
}

func parseArticleAngles(names []string) ([]core.ArticleAngle, error) {
	var angles []core.ArticleAngle
	for _, name := range names {
		angle := core.ArticleAngle(name)
		if !validArticleAngle(angle) {
			return nil, fmt.Errorf("unknown article angle %q (valid: %v)", name, core.AllArticleAngles)
		}
		angles = append(angles, angle)
	}
	return angles, nil
}

func validArticleAngle(angle core.ArticleAngle) bool {
	for _, a := range core.AllArticleAngles {
		if a == angle {
			return true
		}
	}
	return false
}

var listAnglesCmd = &cobra.Command{
	Use:   "angles",
	Short: "List available content angles",
	Long:  `Display all post and article angles with their descriptions.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Post Angles:")
		fmt.Println("============")
		descriptions := map[core.PostAngle]string{
			core.AngleContrarian:         "Argue against the popular position",
			core.AngleFieldNote:          "First-person report from the trenches",
			core.AngleDemystification:    "Plain-language walkthrough of an opaque topic",
			core.AngleIdentityValidation: "Confirm what readers privately suspect",
			core.AngleProvocateur:        "Lead with the uncomfortable question",
			core.AngleSynthesizer:        "Connect the insight across adjacent fields",
			core.AngleCuriousCat:         "Narrate the pull of a question",
		}
		for _, angle := range core.AllPostAngles {
			fmt.Printf("• %-22s %s\n", string(angle)+":", descriptions[angle])
		}

		fmt.Println()
		fmt.Println("Article Angles:")
		fmt.Println("===============")
		articleDescriptions := map[core.ArticleAngle]string{
			core.ArticleAngleDeepDive:     "Unpack the insight layer by layer",
			core.ArticleAngleFramework:    "Turn the insight into a reusable framework",
			core.ArticleAngleMythBuster:   "Dismantle the misconception pillar by pillar",
			core.ArticleAngleIndustryLens: "What the insight means for the field",
			core.ArticleAngleNarrative:    "Tell the insight as a story",
		}
		for _, angle := range core.AllArticleAngles {
			fmt.Printf("• %-15s %s\n", string(angle)+":", articleDescriptions[angle])
		}

		fmt.Println()
		fmt.Printf("Usage: repurpose generate --angles <a,b> --article-angles <c>\n")
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(listAnglesCmd)

	generateCmd.Flags().StringP("transcript", "t", "", "Path to a raw transcript file")
	generateCmd.Flags().StringSliceP("source", "s", nil, "Source URL to fetch (repeatable)")
	generateCmd.Flags().StringSlice("angles", nil, "Post angles to generate")
	generateCmd.Flags().StringSlice("article-angles", nil, "Article angles to generate")
	generateCmd.Flags().Int("versions", 0, "Versions per post angle")
	generateCmd.Flags().Int("article-versions", 0, "Versions per article angle")
	generateCmd.Flags().Int("max-insights", 0, "Maximum insights to keep after deduplication")
	generateCmd.Flags().StringP("output", "o", "", "Output directory for the markdown bundle")
}
