package writer

import (
	"fmt"

	"repurpose/internal/core"
)

// postAngleInstructions maps each post angle to the rhetorical stance the
// model should take. Every template shares the same structural contract
// (hook, body beats, open question, full text); the angle only changes the
// lens on the insight.
var postAngleInstructions = map[core.PostAngle]string{
	core.AngleContrarian: `Take the contrarian stance. Open by naming the popular position, then
argue the insight against it. Be direct without being dismissive; concede
what the popular position gets right before showing where it breaks.`,

	core.AngleFieldNote: `Write a field note: a practitioner reporting from the trenches. Ground the
insight in a concrete situation (a project, a meeting, a failure) told in
first person. Keep it observational, not preachy.`,

	core.AngleDemystification: `Demystify. Treat the insight as something the audience finds opaque or
intimidating, and walk through it in plain language. Replace jargon with
everyday comparisons. The reader should finish thinking "that's all it is?"`,

	core.AngleIdentityValidation: `Validate the reader's experience. Many readers privately suspect what this
insight says but assume they're the only ones. Name that private suspicion
out loud, confirm it, and give it legitimacy with the insight's reasoning.`,

	core.AngleProvocateur: `Provoke. Sharpen the insight into its most uncomfortable form and lead
with it. Ask the question people avoid asking. Stay on the defensible side
of provocative: bold framing, honest substance, no strawmen.`,

	core.AngleSynthesizer: `Synthesize. Connect the insight to at least two adjacent ideas or fields
the audience already knows, and show the pattern underneath all of them.
The value is the connection, not any single point.`,

	core.AngleCuriousCat: `Lead with curiosity. Frame the insight as a question you couldn't stop
pulling on, narrate the pull, and land on what you found. Wonder, not
authority, carries the piece.`,
}

// articleAngleInstructions is the long-form counterpart. Articles carry a
// title/subtitle/sections structure, so these templates direct the shape of
// the argument rather than a single rhetorical move.
var articleAngleInstructions = map[core.ArticleAngle]string{
	core.ArticleAngleDeepDive: `Write a deep dive. Unpack the insight layer by layer: what it claims, the
mechanism behind it, where it holds, where it breaks. Each section should go
one level deeper than the last. Assume a reader who wants to genuinely
understand, not skim.`,

	core.ArticleAngleFramework: `Extract a framework. Turn the insight into a named, reusable way of
thinking with 3-5 distinct parts. Each section covers one part: what it is,
why it matters, how to apply it. Close with when not to use the framework.`,

	core.ArticleAngleMythBuster: `Bust the myth. Structure the article around the misconception: state it
fairly, explain why smart people believe it, then dismantle it with the
insight. Each section removes one pillar of the myth.`,

	core.ArticleAngleIndustryLens: `Apply an industry lens. Examine what the insight means for the reader's
field specifically: who wins, who loses, what changes in practice. Sections
move from the individual practitioner outward to teams and the industry.`,

	core.ArticleAngleNarrative: `Tell it as a story. Build the article around a narrative arc (a situation,
a complication, a turn, a resolution) where the insight is the turn. Sections
are beats of the story; exposition stays inside the narrative.`,
}

const postStructureInstruction = `Produce a short-form professional post.

Structure:
- hook: one or two sentences that stop the scroll. No hashtags, no "I'm excited to share".
- body_beats: 3-5 short beats developing the insight, each a standalone thought.
- open_question: one genuine question inviting discussion, not engagement bait.
- full_text: the complete post assembled from the above, ready to publish, under 300 words.`

const articleStructureInstruction = `Produce a long-form article.

Structure:
- title: specific and concrete, no clickbait.
- subtitle: one sentence extending the title.
- introduction: 2-3 paragraphs establishing stakes.
- sections: 3-6 sections, each with a heading and 2-4 paragraphs of body.
- conclusion: lands the implication, no summary padding.
- full_text: the complete article in markdown, assembled from the above.`

func renderInsight(insight core.ExtractedInsight) string {
	text := fmt.Sprintf("Insight:\nTopic: %s\nClaim: %s\nWhy it matters: %s",
		insight.Topic, insight.Claim, insight.WhyItMatters)
	if insight.Misconception != "" {
		text += fmt.Sprintf("\nMisconception it challenges: %s", insight.Misconception)
	}
	if insight.ProfessionalImplication != "" {
		text += fmt.Sprintf("\nProfessional implication: %s", insight.ProfessionalImplication)
	}
	return text
}
