package images

import "fmt"

// Appearance keys match the persisted player appearance descriptor. The
// descriptor is opaque to game logic; only prompt building reads it.
func appearanceField(appearance map[string]any, key, fallback string) string {
	if v, ok := appearance[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func characterDescriptor(appearance map[string]any) string {
	genderDesc := "young boy"
	if appearanceField(appearance, "gender", "") == "Girl" {
		genderDesc = "young girl"
	}
	return fmt.Sprintf("%s %s character with %s %s hair, %s eyes, %s skin tone, wearing %s",
		genderDesc,
		appearanceField(appearance, "race", "Human"),
		appearanceField(appearance, "hairColor", "brown"),
		appearanceField(appearance, "hairStyle", "medium"),
		appearanceField(appearance, "eyeColor", "brown"),
		appearanceField(appearance, "skinTone", "medium"),
		appearanceField(appearance, "clothing", "adventurer's gear"),
	)
}

// RoomPrompt builds the scene prompt for a dungeon room. A non-empty
// appearance places the character in the scene doing the given action.
func RoomPrompt(description, theme string, appearance map[string]any, action string) string {
	prompt := fmt.Sprintf(
		"A creative, family-friendly dungeon room illustration in a fantasy style. %s. %s.",
		theme, description)
	if len(appearance) > 0 {
		if action == "" {
			action = "exploring and looking around"
		}
		prompt += fmt.Sprintf(" The character (%s) is visible in the scene, %s.",
			characterDescriptor(appearance), action)
	}
	prompt += " Colorful, engaging, suitable for middle-grade children. No violence or scary elements."
	return prompt
}

// PortraitPrompt builds the character portrait prompt from the appearance
// descriptor.
func PortraitPrompt(appearance map[string]any) string {
	return fmt.Sprintf(
		"A friendly fantasy character portrait of a %s, shown from the shoulders up, smiling."+
			" Colorful, engaging, suitable for middle-grade children. No violence or scary elements.",
		characterDescriptor(appearance))
}
