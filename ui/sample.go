package ui

import (
	"time"

	"vact/storage"
)

// sampleRecords returns the built-in demo feed. It is display-only and
// never reaches the persisted store.
func sampleRecords(now time.Time) []storage.CommandRecord {
	return []storage.CommandRecord{
		{
			ID:          "sample-1",
			Command:     "Create a PRD for a social media app",
			Intent:      "generate",
			Title:       "Social Media App PRD",
			Content:     "# Product Requirements Document\n\n## Overview\nA next-generation social media platform focused on authentic connections.\n\n## Key Features\n- **Story-first feed**: Prioritizes ephemeral content\n- **Interest-based discovery**: AI-powered content matching\n- **Privacy controls**: Granular audience selection\n- **Creator monetization**: Built-in tipping and subscriptions\n\n## Target Audience\nGen Z and Millennials seeking authentic social experiences.\n\n## Success Metrics\n1. Daily Active Users (DAU)\n2. Average session length > 8 minutes\n3. Content creation rate > 30%",
			CommandType: "Generate",
			Timestamp:   now.Add(-2 * time.Minute),
		},
		{
			ID:          "sample-2",
			Command:     "Rephrase this paragraph more formally",
			Intent:      "rephrase",
			Title:       "Formal Rephrasing",
			Content:     "The proposed initiative seeks to **establish a comprehensive framework** for cross-departmental collaboration, thereby enhancing operational efficiency and fostering a culture of continuous improvement across the organization.",
			CommandType: "Rephrase",
			Timestamp:   now.Add(-5 * time.Minute),
		},
		{
			ID:          "sample-3",
			Command:     "Research the latest trends in AI",
			Intent:      "research",
			Title:       "AI Trends 2025",
			Content:     "## Latest AI Trends\n\n### 1. Multimodal AI\nModels that process text, images, audio, and video simultaneously are becoming the standard.\n\n### 2. AI Agents\nAutonomous agents that can plan, execute, and iterate on complex tasks with minimal human oversight.\n\n### 3. Small Language Models\nEfficient, specialized models that run on-device for privacy-sensitive applications.\n\n### 4. AI in Science\n- Drug discovery acceleration\n- Climate modeling improvements\n- Materials science breakthroughs",
			CommandType: "Research",
			Timestamp:   now.Add(-10 * time.Minute),
		},
	}
}

// exampleCommands seed the empty state before any real history exists.
var exampleCommands = []string{
	"Create a PRD for a social media app",
	"Rephrase this paragraph more formally",
	"Research the latest trends in AI",
	"Draft an email to my team about the quarterly goals",
}
