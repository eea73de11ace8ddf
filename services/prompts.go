package services

import (
	"fmt"
	"strings"

	"debatebot/models"
	"debatebot/validators"
)

// cleanModelOutput strips markdown code fences and surrounding whitespace
// from raw model text.
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.Trim(strings.TrimSpace(cleaned), `"'`)
}

// formatHistory converts messages into a plain transcript for prompts.
func formatHistory(history []models.Message) string {
	var sb strings.Builder
	for _, msg := range history {
		sb.WriteString(fmt.Sprintf("%s: %s\n", strings.ToUpper(msg.Role), msg.Content))
	}
	return sb.String()
}

func languageName(code string) string {
	if code == "es" {
		return "Spanish"
	}
	return "English"
}

func extractionPrompt(userMessage string) string {
	return fmt.Sprintf(
		`Analyze the following opening message of a debate and work out the stance a contrarian debate bot should take against the user.

User message: "%s"

Your task:
1. Identify the core topic (max 50 characters).
2. Classify it into one of these categories, or "Other":
   - Climate Change
   - Vaccines and Health
   - Flat Earth vs Spherical Earth
   - Artificial Intelligence and Jobs
   - Social Media and Privacy
3. State the position the bot will defend: it must directly oppose the user's stated stance, be provocative but not offensive, and be defensible with creative arguments.
4. Detect the language of the user's message as an ISO 639-1 code ("en" or "es").

Respond with a JSON object:
{
    "topic": "Brief topic name",
    "category": "One of the categories above",
    "position": "Clear, controversial stance the bot will defend",
    "language": "en"
}

Only respond with the JSON object, no additional text.`,
		userMessage,
	)
}

// persuasivePrompt builds the generation request for one turn. The repair
// clause, when present, carries the amendment for a regeneration attempt.
func persuasivePrompt(topic, position, language, userMessage string, history []models.Message, userRepetitive bool, maxWords int, repair string) string {
	repetitiveNote := ""
	if userRepetitive {
		repetitiveNote = "\nThe user keeps repeating the same point. Call that out directly and challenge them to bring something new to the conversation."
	}
	repairNote := ""
	if repair != "" {
		repairNote = "\nIMPORTANT CORRECTION FOR THIS REPLY: " + repair
	}

	return fmt.Sprintf(
		`You are a debate bot that takes controversial positions and defends them persuasively.

YOUR ASSIGNED POSITION: %s
TOPIC: %s
REPLY LANGUAGE: %s

CONVERSATION SO FAR:
%s
USER'S LATEST MESSAGE: %s

CRITICAL RULES:
1. ALWAYS respond in the reply language given above.
2. ALWAYS maintain your assigned position - never change your stance under any circumstances.
3. Actively try to convince the user that your position is correct; present it with confidence.
4. If the user disagrees, double down with more "evidence": cite alternative sources, hidden studies, suppressed findings.
5. If the user drifts off topic, use a sarcastic tone and cleverly redirect to your assigned topic.
6. Use rhetorical techniques: question assumptions, appeal to skepticism, create doubt about the mainstream view.
7. Never apologize, never concede a point, never acknowledge your position might be wrong.
8. Keep the reply under %d words and end with a question or challenge that pushes your viewpoint.%s%s

Provide only your reply text, with no preamble and no quotation marks.`,
		position, topic, languageName(language),
		formatHistory(history), userMessage, maxWords,
		repetitiveNote, repairNote,
	)
}

func consistencyPrompt(candidate, position string) string {
	return fmt.Sprintf(
		`You are validating whether a debate bot's reply stays consistent with its assigned position.

ASSIGNED POSITION: %s
GENERATED REPLY: %s

Does the reply maintain the assigned position without conceding, agreeing with the opposing side, or switching stance?

Respond with a JSON object:
{
    "consistent": true,
    "reason": "short explanation"
}

Only respond with the JSON object, no additional text.`,
		position, candidate,
	)
}

// stayOnPositionClause is the amendment used after an inconsistency.
func stayOnPositionClause(position string) string {
	return fmt.Sprintf("Your previous draft drifted from your stance. Restate and defend exactly this position, without agreeing with the user: %s", position)
}

// repairClause maps the most specific failed rule to a prompt amendment.
func repairClause(failed []validators.RuleName, maxWords int) string {
	has := func(name validators.RuleName) bool {
		for _, f := range failed {
			if f == name {
				return true
			}
		}
		return false
	}
	switch {
	case has(validators.Disallowed):
		return "Never use apologetic or conceding phrases and never declare the discussion over. Argue your position."
	case has(validators.Repetitive):
		return "Your previous draft repeated an earlier reply almost verbatim. Make a fresh argument you have not used yet in this conversation."
	case has(validators.OffTopic):
		return "Your previous draft wandered off the debate topic. Tie every sentence back to the topic and your assigned position."
	case has(validators.TooShort):
		return "Your previous draft was too short. Write a fuller, substantive argument of several sentences."
	case has(validators.TooLong):
		return fmt.Sprintf("Your previous draft was too long. Keep it under %d words.", maxWords)
	default:
		return "Improve the reply while keeping your assigned position."
	}
}
