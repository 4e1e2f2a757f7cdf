package service

import (
	"fmt"
	"strings"

	"studyhub_backend/platform/ai"
	"studyhub_backend/platform/pdftext"
)

const (
	chatContextChars       = 30000
	explainContextChars    = 30000
	summaryContextChars    = 50000
	generationContextChars = 40000
	chatHistoryTurns       = 6
)

const tutorSystem = "You are an AI learning assistant helping a student study their own documents. Be clear, accurate and educational."

func chatPrompt(text, message string, history []ai.Turn) ai.Prompt {
	return ai.Prompt{
		System:  tutorSystem,
		History: history,
		Text: fmt.Sprintf(`Document content:
---DOCUMENT START---
%s
---DOCUMENT END---

Question: %s

Answer from the document content. When the document does not cover it, say so and then answer from general knowledge.`,
			pdftext.Truncate(text, chatContextChars), message),
	}
}

func summaryPrompt(text string) ai.Prompt {
	return ai.Prompt{
		System: "You are an expert summarizer producing study notes.",
		Text: fmt.Sprintf(`Summarize the document below for study and review.
Cover the main topics and key points in a clear structure, and call out important concepts, definitions and conclusions.

Document content:
%s`, pdftext.Truncate(text, summaryContextChars)),
	}
}

func explainPrompt(text, concept string) ai.Prompt {
	return ai.Prompt{
		System: "You are an expert educator.",
		Text: fmt.Sprintf(`Explain the concept %q using the document below.
Define it, relate it to the document, give examples where they help, and keep the language simple.

Document content:
%s`, concept, pdftext.Truncate(text, explainContextChars)),
	}
}

func flashcardsPrompt(text string, count int) ai.Prompt {
	return ai.Prompt{
		System: "You are an expert educator writing study flashcards.",
		JSON:   true,
		Text: fmt.Sprintf(`Create %d flashcards covering the key concepts, definitions, facts and relationships in the document below.
Each card has one specific question and a concise, complete answer.

Document content:
%s

Respond with a JSON array only:
[{"question": "What is ...?", "answer": "..."}]`, count, pdftext.Truncate(text, generationContextChars)),
	}
}

func quizPrompt(text string, count int) ai.Prompt {
	return ai.Prompt{
		System: "You are an expert educator writing a multiple-choice quiz.",
		JSON:   true,
		Text: fmt.Sprintf(`Create %d multiple-choice questions that test understanding of the document below.
Every question has exactly 4 options and one correct answer. correctAnswer is the 0-based index of that option. Explain why it is correct.

Document content:
%s

Respond with a JSON array only:
[{"question": "...", "options": ["A", "B", "C", "D"], "correctAnswer": 0, "explanation": "..."}]`, count, pdftext.Truncate(text, generationContextChars)),
	}
}

// lastTurns keeps the most recent n turns, oldest first.
func lastTurns(turns []ai.Turn, n int) []ai.Turn {
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	out := make([]ai.Turn, 0, len(turns))
	for _, t := range turns {
		if strings.TrimSpace(t.Text) != "" {
			out = append(out, t)
		}
	}
	return out
}
