package llm

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/aichef/internal/domain"
)

// System prompts live here so personality changes are a single-file edit.

// PromptChef asks for a single recipe whose first line is the dish name.
const PromptChef = `You are a creative and professional chef AI. Generate a single complete, easy-to-follow recipe based on the user's provided ingredients and time limit. The first line of your response MUST be ONLY the Recipe Name (the dish's title), followed by a newline, and then the rest of the recipe. The rest of the recipe should be presented clearly with sections for Ingredients:, Instructions:, and time/serving details. Do not include any introductory or concluding conversational text.`

// RecipePrompt builds the prompt for a generation request.
func RecipePrompt(req domain.GenerationRequest) domain.Prompt {
	return domain.Prompt{
		System: PromptChef,
		User: fmt.Sprintf(
			"Create a healthy, delicious recipe using the following ingredients: %s. The total cooking and prep time should not exceed %d minutes.",
			strings.TrimSpace(req.Ingredients), req.MaxMinutes,
		),
	}
}
