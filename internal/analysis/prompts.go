package analysis

import (
	"fmt"
	"strings"
)

// Prompts for the processing stage.

func summaryPrompt(text string) string {
	return fmt.Sprintf(`Write a concise summary of the following article text.
Cover the main points in a few sentences. Respond with the summary only.

Text:
%s

Summary:`, text)
}

func combinePrompt(partials []string) string {
	return fmt.Sprintf(`The following are partial summaries of sections of one article.
Combine them into a single concise summary covering the main points.
Respond with the summary only.

Partial summaries:
%s

Summary:`, strings.Join(partials, "\n\n"))
}

func keywordsPrompt(summary string) string {
	return fmt.Sprintf(`Extract 5-10 important keywords from the following summary.
Summary: %s
Format the keywords as a numbered list like this:
1. Keyword One
2. Keyword Two
3. Keyword Three
Keywords:`, summary)
}

func sentimentPrompt(summary string) string {
	return fmt.Sprintf(`Analyze the overall tone of the following article summary.
Your response should reflect the general sentiment expressed in the summary
as a whole, not specific words or isolated events.
Reply with exactly one word: Positive, Neutral, or Negative.
Summary: %s
Sentiment:`, summary)
}

// Prompts for the evaluation stage. Each expects a single JSON object
// of the form {"score": <1-10>, "explanation": "..."}.

const verdictFormat = `Respond with only ONE JSON object in this exact format:
{"score": <number 1-10>, "explanation": "<brief explanation>"}`

func summaryQualityPrompt(summary string) string {
	return fmt.Sprintf(`Rate this summary quality (1-10) and provide an explanation.
Summary: %s

Evaluate based on:
- Clarity: Is the summary easy to understand?
- Coherence: Does it flow logically?
- Completeness: Does it cover the main points?
- Conciseness: Is it appropriately brief without being too short?

Score Guidelines:
- 9-10: Excellent - Clear, complete, well-structured
- 7-8: Good - Minor issues with clarity or completeness
- 5-6: Fair - Some important information missing or unclear
- 3-4: Poor - Significant clarity or completeness issues
- 1-2: Very poor - Confusing, incomplete, or incoherent

%s`, summary, verdictFormat)
}

func keywordsRelevancePrompt(summary, keywords string) string {
	return fmt.Sprintf(`Rate how well these keywords match and represent the summary content (1-10).
Summary: %s
Keywords: %s

Evaluate based on:
- Relevance: Are the keywords directly related to the summary content?
- Coverage: Do the keywords cover the main topics in the summary?
- Accuracy: Are the keywords correctly extracted from the content?
- Completeness: Are important topics from the summary represented in keywords?

Score Guidelines:
- 9-10: Excellent - Keywords perfectly match and cover summary content
- 7-8: Good - Most keywords relevant, minor gaps or irrelevant terms
- 5-6: Fair - Some keywords relevant, but missing key topics
- 3-4: Poor - Many keywords irrelevant or missing important topics
- 1-2: Very poor - Keywords mostly irrelevant

%s`, summary, keywords, verdictFormat)
}

func sentimentAlignmentPrompt(summary, sentiment string) string {
	return fmt.Sprintf(`You are evaluating if the predicted sentiment matches the ACTUAL WRITING TONE of the summary.
Summary: %s
Predicted Sentiment: %s

STEP 1: Identify the actual writing tone as NEUTRAL (factual, objective),
NEGATIVE (critical, pessimistic), or POSITIVE (enthusiastic, optimistic).

STEP 2: Compare it to the predicted sentiment.

STEP 3: Apply strict scoring rules:
- Prediction matches the actual tone = 9/10
- Prediction does not match the actual tone = 2/10
- Partial alignment only = 4-7/10

%s`, summary, sentiment, verdictFormat)
}
