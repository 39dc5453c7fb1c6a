package core

import "time"

// TranscriptChunk is a topically coherent slice of a segmented transcript.
// Chunks are produced only by the segmenter and consumed once by the
// insight extractor; Index is ordering-significant.
type TranscriptChunk struct {
	Index     int    `json:"index"`      // Position within the transcript
	Text      string `json:"text"`       // Cleaned chunk text (no timestamps/speaker tags)
	TopicHint string `json:"topic_hint"` // Short label for the chunk's topic
}

// ExtractedInsight is a structured candidate claim eligible for content
// generation, taken from a transcript chunk or derived from a DistilledInsight.
type ExtractedInsight struct {
	Topic                   string `json:"topic"`                    // Subject area of the claim
	Claim                   string `json:"claim"`                    // The candidate claim itself
	WhyItMatters            string `json:"why_it_matters"`           // Significance for the audience
	Misconception           string `json:"misconception,omitempty"`  // Common misread the claim challenges (optional)
	ProfessionalImplication string `json:"professional_implication"` // What practitioners should do differently
}

// SourceSummary is the structured distillation of one fetched document.
type SourceSummary struct {
	SourceID           string   `json:"source_id"`           // Unique identifier for the source
	URL                string   `json:"url"`                 // Where the document was fetched from
	Title              string   `json:"title"`               // Document title
	MainClaims         []string `json:"main_claims"`         // Central claims the document makes
	KeyDetails         []string `json:"key_details"`         // Supporting details and evidence
	ImpliedAssumptions []string `json:"implied_assumptions"` // Assumptions the document rests on
	Relevance          string   `json:"relevance"`           // Why the document matters for the run
}

// DistilledInsight is a cross-source synthesized claim. SupportingSources
// holds SourceSummary ids as non-owning back-references.
type DistilledInsight struct {
	Theme             string   `json:"theme"`              // Cross-cutting theme
	SynthesizedClaim  string   `json:"synthesized_claim"`  // Claim spanning multiple sources
	SupportingSources []string `json:"supporting_sources"` // SourceSummary ids backing the claim
	WhyItMatters      string   `json:"why_it_matters"`     // Significance of the synthesis
	CommonMisread     string   `json:"common_misread"`     // Misconception the claim corrects
}

// Document is the readable main content extracted from a fetched page.
type Document struct {
	URL       string    `json:"url"`                 // Source URL
	Title     string    `json:"title"`               // Extracted title
	Content   string    `json:"content"`             // Readable body text, boilerplate removed
	Excerpt   string    `json:"excerpt,omitempty"`   // Short lead excerpt, when available
	Byline    string    `json:"byline,omitempty"`    // Author byline, when available
	SiteName  string    `json:"site_name,omitempty"` // Publishing site name, when available
	FetchedAt time.Time `json:"fetched_at"`          // When the fetch completed
}

// PostAngle is a fixed stylistic lens for short-form post generation.
type PostAngle string

const (
	AngleContrarian         PostAngle = "contrarian"
	AngleFieldNote          PostAngle = "field_note"
	AngleDemystification    PostAngle = "demystification"
	AngleIdentityValidation PostAngle = "identity_validation"
	AngleProvocateur        PostAngle = "provocateur"
	AngleSynthesizer        PostAngle = "synthesizer"
	AngleCuriousCat         PostAngle = "curious_cat"
)

// AllPostAngles lists every post angle in enumeration order. Output ordering
// follows this slice, never concurrent completion order.
var AllPostAngles = []PostAngle{
	AngleContrarian,
	AngleFieldNote,
	AngleDemystification,
	AngleIdentityValidation,
	AngleProvocateur,
	AngleSynthesizer,
	AngleCuriousCat,
}

// ArticleAngle is a fixed stylistic lens for long-form article generation.
type ArticleAngle string

const (
	ArticleAngleDeepDive     ArticleAngle = "deep_dive"
	ArticleAngleFramework    ArticleAngle = "framework"
	ArticleAngleMythBuster   ArticleAngle = "myth_buster"
	ArticleAngleIndustryLens ArticleAngle = "industry_lens"
	ArticleAngleNarrative    ArticleAngle = "narrative"
)

// AllArticleAngles lists every article angle in enumeration order.
var AllArticleAngles = []ArticleAngle{
	ArticleAngleDeepDive,
	ArticleAngleFramework,
	ArticleAngleMythBuster,
	ArticleAngleIndustryLens,
	ArticleAngleNarrative,
}

// Post is one generated short-form content item. It is owned by the
// insight + angle + version triple that produced it and never mutated
// after creation.
type Post struct {
	ID            string    `json:"id"`             // Unique identifier
	Angle         PostAngle `json:"angle"`          // Stylistic angle used
	VersionNumber int       `json:"version_number"` // 1-based, dense within an angle
	Hook          string    `json:"hook"`           // Opening line designed to stop the scroll
	BodyBeats     []string  `json:"body_beats"`     // Ordered beats developing the claim
	OpenQuestion  string    `json:"open_question"`  // Closing question inviting discussion
	FullText      string    `json:"full_text"`      // Assembled ready-to-publish text
}

// ArticleSection is one titled section of a generated article body.
type ArticleSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Article is one generated long-form content item.
type Article struct {
	ID            string           `json:"id"`             // Unique identifier
	Angle         ArticleAngle     `json:"angle"`          // Stylistic angle used
	VersionNumber int              `json:"version_number"` // 1-based, dense within an angle
	Title         string           `json:"title"`
	Subtitle      string           `json:"subtitle"`
	Introduction  string           `json:"introduction"`
	Sections      []ArticleSection `json:"sections"`
	Conclusion    string           `json:"conclusion"`
	FullText      string           `json:"full_text"` // Assembled ready-to-publish text
}

// StylePreset is one of the fixed visual styles an ImageIntent may request.
type StylePreset string

const (
	StyleMinimalist   StylePreset = "minimalist"
	StyleEditorial    StylePreset = "editorial"
	StyleTech         StylePreset = "tech"
	StylePhotographic StylePreset = "photographic"
	StyleAbstract     StylePreset = "abstract"
)

// AllStylePresets lists the fixed set of visual style presets.
var AllStylePresets = []StylePreset{
	StyleMinimalist,
	StyleEditorial,
	StyleTech,
	StylePhotographic,
	StyleAbstract,
}

// ImageIntent is the specification handed to a downstream image-generation
// call. It is associated to exactly one generated content item by ContentID
// and carries no concrete brand colors; those are applied downstream.
type ImageIntent struct {
	ID             string      `json:"id"`              // Unique identifier
	ContentID      string      `json:"content_id"`      // ID of the Post or Article this intent belongs to
	Prompt         string      `json:"prompt"`          // Image-model prompt, important terms front-loaded
	NegativePrompt string      `json:"negative_prompt"` // Visual clichés and artifacts to avoid
	HeadlineText   string      `json:"headline_text"`   // Short overlay headline, word-count bounded
	StylePreset    StylePreset `json:"style_preset"`    // One of the fixed presets
}

// SourceError records a source URL that failed during source processing.
// Source failures degrade gracefully and never abort a run.
type SourceError struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// PipelineResult aggregates everything one pipeline run produced. It is
// assembled once at the end of a run; the pipeline holds no state after
// returning it.
type PipelineResult struct {
	Insights               []ExtractedInsight `json:"insights"`
	Posts                  []Post             `json:"posts"`
	Articles               []Article          `json:"articles"`
	ImageIntents           []ImageIntent      `json:"image_intents"`
	TotalPosts             int                `json:"total_posts"`    // Always equals len(Posts)
	TotalArticles          int                `json:"total_articles"` // Always equals len(Articles)
	AnglesGenerated        []PostAngle        `json:"angles_generated"`
	ArticleAnglesGenerated []ArticleAngle     `json:"article_angles_generated"`
	SourceErrors           []SourceError      `json:"source_errors,omitempty"`
	GeneratedAt            time.Time          `json:"generated_at"`
	Elapsed                time.Duration      `json:"elapsed"`
}
